package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyboard_automation/models"
)

func sampleScenes() []models.Scene {
	return []models.Scene{
		{
			SceneNumber:     1,
			Narration:       "A lighthouse keeper climbs the stairs.",
			Summary:         "Keeper on spiral staircase",
			DurationSeconds: 4.5,
			ImagePrompt:     "A weathered lighthouse keeper, oil painting style",
			VideoPrompt:     "Slow tracking shot up a spiral staircase",
			AudioFile:       "audio/scene1.wav",
		},
		{
			SceneNumber:     2,
			Narration:       "The storm gathers, with a \"quoted\" word and, commas.",
			Summary:         "Storm over the bay",
			DurationSeconds: 6,
			ImagePrompt:     "Dark storm clouds over a bay",
			VideoPrompt:     "Wide angle of storm front rolling in",
			ImageFile:       "images/scene2.png",
		},
	}
}

func TestSceneSpreadsheet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := SceneSpreadsheet(&buf, sampleScenes()); err != nil {
		t.Fatalf("SceneSpreadsheet() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading produced CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d rows, want 3 (header + 2 scenes)", len(records))
	}
	if records[0][0] != "scene" || records[0][4] != "image_prompt" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "1" || records[1][1] != "4.50" {
		t.Errorf("row 1 = %v", records[1])
	}
	// CSV quoting survives round-trip.
	if records[2][2] != "The storm gathers, with a \"quoted\" word and, commas." {
		t.Errorf("row 2 narration = %q", records[2][2])
	}
}

func TestPromptSheet(t *testing.T) {
	t.Parallel()

	sheet := PromptSheet(sampleScenes())

	for _, want := range []string{
		"=== Scene 1 (4.5s) ===",
		"=== Scene 2 (6.0s) ===",
		"Image prompt: A weathered lighthouse keeper, oil painting style",
		"Video prompt: Wide angle of storm front rolling in",
	} {
		if !strings.Contains(sheet, want) {
			t.Errorf("prompt sheet missing %q", want)
		}
	}
}

func TestPromptSheetEmpty(t *testing.T) {
	t.Parallel()

	if got := PromptSheet(nil); got != "" {
		t.Errorf("PromptSheet(nil) = %q, want empty", got)
	}
}

func TestArchive(t *testing.T) {
	t.Parallel()

	assetsDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(assetsDir, "audio"), 0755); err != nil {
		t.Fatal(err)
	}
	wavData := []byte("RIFF fake wav payload")
	if err := os.WriteFile(filepath.Join(assetsDir, "audio", "scene1.wav"), wavData, 0644); err != nil {
		t.Fatal(err)
	}

	job := models.StoryboardJob{Script: "A lighthouse keeper climbs the stairs."}

	var buf bytes.Buffer
	if err := Archive(&buf, job, sampleScenes(), assetsDir); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("opening produced zip: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}

	for _, want := range []string{"script.txt", "scenes.csv", "prompts.txt", "scene_01_scene1.wav"} {
		if !names[want] {
			t.Errorf("archive missing entry %q (have %v)", want, names)
		}
	}
	// Scene 2's image was never written to disk, so it is left out.
	if names["scene_02_scene2.png"] {
		t.Error("archive contains entry for missing media file")
	}

	rc, err := zr.Open("scene_01_scene1.wav")
	if err != nil {
		t.Fatalf("opening wav entry: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading wav entry: %v", err)
	}
	if !bytes.Equal(got, wavData) {
		t.Errorf("wav entry content = %q, want %q", got, wavData)
	}
}
