package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"storyboard_automation/audio"
	"storyboard_automation/internal/platform"
	"storyboard_automation/models"
	"storyboard_automation/processing"
	"storyboard_automation/script"
	"storyboard_automation/settings"
)

const (
	// maxSegmentationChars bounds the script text per segmentation call;
	// longer scripts are split on sentence boundaries and segmented in blocks.
	maxSegmentationChars = 12000

	defaultMaxScenes = 20
	maxScenesCap     = 100
)

// runPipeline parses the script, segments it into scenes and generates the
// per-scene artifacts. Prompt generation failures fail the job; failures on
// optional media (audio, images) are logged and the scene is kept without
// that asset.
func (w *Worker) runPipeline(ctx context.Context, job *models.StoryboardJob, project *models.Project) (int, error) {
	drafts, err := w.segmentScript(ctx, job)
	if err != nil {
		return 0, fmt.Errorf("segmenting script: %w", err)
	}

	total := len(drafts)
	log.Printf("✓ Segmented script into %d scenes", total)

	voice := job.Voice
	if voice == "" {
		voice = w.settings.GetDefault(ctx, settings.KeyDefaultVoice, "")
	}

	for i, draft := range drafts {
		sceneNumber := i + 1
		w.updateJob(ctx, job.ID, bson.M{"current_scene": sceneNumber})
		w.publishProgress(ctx, job.ID, models.StatusProcessing, "scene", sceneNumber, total,
			fmt.Sprintf("Generating scene %d of %d", sceneNumber, total))

		imagePrompt, err := w.gemini.GenerateText(buildImagePromptRequest(project, draft))
		if err != nil {
			return 0, fmt.Errorf("generating image prompt for scene %d: %w", sceneNumber, err)
		}

		videoPrompt, err := w.gemini.GenerateText(buildVideoPromptRequest(project, draft, imagePrompt))
		if err != nil {
			return 0, fmt.Errorf("generating video prompt for scene %d: %w", sceneNumber, err)
		}

		scene := models.Scene{
			JobID:           job.ID,
			ProjectID:       job.ProjectID,
			SceneNumber:     sceneNumber,
			Narration:       draft.Narration,
			Summary:         draft.Summary,
			DurationSeconds: draft.DurationSeconds,
			ImagePrompt:     imagePrompt,
			VideoPrompt:     videoPrompt,
			CreatedAt:       time.Now(),
		}

		if job.GenerateAudio {
			audioFile, sampleRate, err := w.synthesizeSceneAudio(draft.Narration, voice)
			if err != nil {
				log.Printf("Warning: audio for scene %d failed, continuing without it: %v", sceneNumber, err)
			} else {
				scene.AudioFile = audioFile
				scene.AudioSampleRate = sampleRate
			}
		}

		if job.GenerateImages {
			imageFile, err := w.renderSceneImage(imagePrompt)
			if err != nil {
				log.Printf("Warning: image for scene %d failed, continuing without it: %v", sceneNumber, err)
			} else {
				scene.ImageFile = imageFile
			}
		}

		if _, err := w.scenes().InsertOne(ctx, scene); err != nil {
			return 0, fmt.Errorf("saving scene %d: %w", sceneNumber, err)
		}

		w.publishProgress(ctx, job.ID, models.StatusProcessing, "scene_done", sceneNumber, total,
			fmt.Sprintf("Scene %d of %d complete", sceneNumber, total))

		if i < total-1 {
			time.Sleep(w.sceneDelay)
		}
	}

	return total, nil
}

// segmentScript picks the provider and turns the script into scene drafts.
// Segmentation itself is delegated to the model: the modes are instruction
// text, not a local algorithm.
func (w *Worker) segmentScript(ctx context.Context, job *models.StoryboardJob) ([]processing.SceneDraft, error) {
	maxScenes := job.MaxScenes
	if maxScenes <= 0 {
		maxScenes = defaultMaxScenes
	}
	if maxScenes > maxScenesCap {
		maxScenes = maxScenesCap
	}

	// Timed mode needs the cue timecodes, so it works on the raw SRT; the
	// other modes work on cleaned narration text.
	var text string
	if job.SegmentationMode == models.ModeTimed && job.ScriptFormat == "srt" {
		if _, err := script.ParseSRT(job.Script); err != nil {
			return nil, fmt.Errorf("timed mode requires valid SRT input: %w", err)
		}
		text = job.Script
	} else {
		text = script.Clean(job.Script)
	}
	if text == "" {
		return nil, fmt.Errorf("script is empty after cleanup")
	}

	instruction := segmentationInstruction(job.SegmentationMode)

	provider := job.Provider
	if provider == "" {
		provider = w.settings.GetDefault(ctx, settings.KeyAIProvider, models.ProviderGemini)
	}

	var drafts []processing.SceneDraft
	for _, block := range script.SplitByCharLimit(text, maxSegmentationChars) {
		remaining := maxScenes - len(drafts)
		if remaining <= 0 {
			break
		}

		var blockDrafts []processing.SceneDraft
		var err error
		switch provider {
		case models.ProviderOpenAI:
			blockDrafts, err = processing.SegmentScript(ctx, platform.OpenAIAPIKey(), block, instruction, remaining)
		default:
			err = w.gemini.GenerateJSON(buildSegmentationRequest(block, instruction, remaining), &blockDrafts)
		}
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, blockDrafts...)
	}

	if len(drafts) == 0 {
		return nil, fmt.Errorf("model returned no scenes")
	}
	if len(drafts) > maxScenes {
		drafts = drafts[:maxScenes]
	}

	// Renumber sequentially; block-wise segmentation restarts numbering.
	for i := range drafts {
		drafts[i].SceneNumber = i + 1
	}

	return drafts, nil
}

// synthesizeSceneAudio speaks the narration and stores it as a WAV file under
// the assets directory. Returns the file name relative to the assets root.
func (w *Worker) synthesizeSceneAudio(narration, voice string) (string, int, error) {
	speech, err := w.gemini.SynthesizeSpeech(narration, voice)
	if err != nil {
		return "", 0, err
	}

	wavData, err := audio.WAVFromBase64PCM(speech.Data, speech.SampleRate)
	if err != nil {
		return "", 0, fmt.Errorf("encoding WAV: %w", err)
	}

	name := filepath.Join("audio", uuid.NewString()+".wav")
	if err := os.WriteFile(filepath.Join(w.assetsDir, name), wavData, 0644); err != nil {
		return "", 0, fmt.Errorf("writing audio file: %w", err)
	}
	return name, speech.SampleRate, nil
}

// renderSceneImage renders the image prompt and stores the PNG under the
// assets directory.
func (w *Worker) renderSceneImage(imagePrompt string) (string, error) {
	image, err := w.gemini.GenerateImage(imagePrompt)
	if err != nil {
		return "", err
	}

	name := filepath.Join("images", uuid.NewString()+".png")
	if err := os.WriteFile(filepath.Join(w.assetsDir, name), image, 0644); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}
	return name, nil
}
