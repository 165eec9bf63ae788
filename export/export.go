// Package export turns a finished storyboard into downloadable artifacts:
// a scene spreadsheet (CSV), a plain-text prompt sheet, and a zip archive
// bundling script, spreadsheet, prompts and generated media files.
package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"storyboard_automation/models"
)

// SceneSpreadsheet writes one CSV row per scene.
func SceneSpreadsheet(w io.Writer, scenes []models.Scene) error {
	cw := csv.NewWriter(w)

	header := []string{
		"scene", "duration_seconds", "narration", "summary",
		"image_prompt", "video_prompt", "audio_file", "image_file",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, scene := range scenes {
		row := []string{
			strconv.Itoa(scene.SceneNumber),
			strconv.FormatFloat(scene.DurationSeconds, 'f', 2, 64),
			scene.Narration,
			scene.Summary,
			scene.ImagePrompt,
			scene.VideoPrompt,
			scene.AudioFile,
			scene.ImageFile,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing scene %d: %w", scene.SceneNumber, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// PromptSheet renders the prompts as a plain-text block per scene.
func PromptSheet(scenes []models.Scene) string {
	var b strings.Builder

	for i, scene := range scenes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "=== Scene %d (%.1fs) ===\n", scene.SceneNumber, scene.DurationSeconds)
		fmt.Fprintf(&b, "Narration: %s\n", scene.Narration)
		if scene.ImagePrompt != "" {
			fmt.Fprintf(&b, "Image prompt: %s\n", scene.ImagePrompt)
		}
		if scene.VideoPrompt != "" {
			fmt.Fprintf(&b, "Video prompt: %s\n", scene.VideoPrompt)
		}
	}

	return b.String()
}

// Archive writes a zip with the script, spreadsheet, prompt sheet and any
// scene media files that exist under assetsDir. Entry order is deterministic:
// text artifacts first, then per-scene media in scene order.
func Archive(w io.Writer, job models.StoryboardJob, scenes []models.Scene, assetsDir string) error {
	zw := zip.NewWriter(w)

	if err := writeZipEntry(zw, "script.txt", []byte(job.Script)); err != nil {
		return err
	}

	var sheet strings.Builder
	if err := SceneSpreadsheet(&sheet, scenes); err != nil {
		return err
	}
	if err := writeZipEntry(zw, "scenes.csv", []byte(sheet.String())); err != nil {
		return err
	}

	if err := writeZipEntry(zw, "prompts.txt", []byte(PromptSheet(scenes))); err != nil {
		return err
	}

	for _, scene := range scenes {
		for _, name := range []string{scene.AudioFile, scene.ImageFile} {
			if name == "" {
				continue
			}
			path := filepath.Join(assetsDir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				// Media that never rendered is simply left out.
				continue
			}
			entry := fmt.Sprintf("scene_%02d_%s", scene.SceneNumber, filepath.Base(name))
			if err := writeZipEntry(zw, entry, data); err != nil {
				return err
			}
		}
	}

	return zw.Close()
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating archive entry %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing archive entry %s: %w", name, err)
	}
	return nil
}
