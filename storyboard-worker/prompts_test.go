package main

import (
	"strings"
	"testing"

	"storyboard_automation/models"
	"storyboard_automation/processing"
)

func TestSegmentationInstruction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		mode string
		want string
	}{
		{name: "auto", mode: models.ModeAuto, want: "visual setting"},
		{name: "paragraph", mode: models.ModeParagraph, want: "each paragraph"},
		{name: "sentence", mode: models.ModeSentence, want: "one scene per sentence"},
		{name: "timed", mode: models.ModeTimed, want: "cue boundaries"},
		{name: "unknown falls back to auto", mode: "chapter", want: "visual setting"},
		{name: "empty falls back to auto", mode: "", want: "visual setting"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := segmentationInstruction(tc.mode)
			if !strings.Contains(got, tc.want) {
				t.Errorf("instruction for %q does not mention %q:\n%s", tc.mode, tc.want, got)
			}
		})
	}
}

func TestBuildSegmentationRequest(t *testing.T) {
	t.Parallel()

	script := "The sun rises over the harbor. Boats leave one by one."
	req := buildSegmentationRequest(script, segmentationInstruction(models.ModeAuto), 12)

	for _, want := range []string{
		script,
		"at most 12 scenes",
		"Return ONLY the JSON array",
		`"scene_number"`,
		`"narration"`,
		`"summary"`,
		`"duration_seconds"`,
	} {
		if !strings.Contains(req, want) {
			t.Errorf("request missing %q", want)
		}
	}
}

func TestBuildImagePromptRequest(t *testing.T) {
	t.Parallel()

	draft := processing.SceneDraft{
		SceneNumber: 3,
		Narration:   "Boats leave one by one.",
		Summary:     "Fishing boats departing a misty harbor at dawn.",
	}

	t.Run("uses project style", func(t *testing.T) {
		t.Parallel()
		project := &models.Project{Title: "Harbor Days", Style: "watercolor illustration"}
		req := buildImagePromptRequest(project, draft)
		for _, want := range []string{"Harbor Days", "watercolor illustration", draft.Summary, draft.Narration} {
			if !strings.Contains(req, want) {
				t.Errorf("request missing %q", want)
			}
		}
	})

	t.Run("falls back to default style", func(t *testing.T) {
		t.Parallel()
		project := &models.Project{Title: "Harbor Days"}
		req := buildImagePromptRequest(project, draft)
		if !strings.Contains(req, "cinematic") {
			t.Errorf("request missing default style:\n%s", req)
		}
	})
}

func TestBuildVideoPromptRequest(t *testing.T) {
	t.Parallel()

	project := &models.Project{Title: "Harbor Days", Style: "watercolor illustration"}
	draft := processing.SceneDraft{
		SceneNumber:     3,
		Summary:         "Fishing boats departing a misty harbor at dawn.",
		DurationSeconds: 6.5,
	}
	imagePrompt := "A misty harbor at dawn in watercolor style"

	req := buildVideoPromptRequest(project, draft, imagePrompt)
	for _, want := range []string{
		"Harbor Days",
		draft.Summary,
		imagePrompt,
		"camera movement",
		"about 6 seconds",
	} {
		if !strings.Contains(req, want) {
			t.Errorf("request missing %q", want)
		}
	}
}
