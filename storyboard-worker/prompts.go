package main

import (
	"fmt"

	"storyboard_automation/models"
	"storyboard_automation/processing"
)

// The segmentation modes are instruction text handed to the model, not an
// algorithm this service implements.
var segmentationModes = map[string]string{
	models.ModeAuto: `- Cut scenes wherever the visual setting, subject, or emotional beat changes.
- A scene should cover one continuous visual idea, typically 2-4 sentences.
- If uncertain, prefer more scenes, not fewer.`,

	models.ModeParagraph: `- Treat each paragraph of the script as exactly one scene.
- Never merge paragraphs and never split a paragraph across scenes.`,

	models.ModeSentence: `- Create one scene per sentence.
- Merge a sentence into its neighbor only when it is a short fragment (under 6 words) continuing the same idea.`,

	models.ModeTimed: `- The script is SRT subtitle data; subtitle cues are atomic units.
- Cut scenes only at cue boundaries and derive each scene's duration from the cue timecodes it spans.
- Avoid merging more than 10 seconds of narration into a single scene.`,
}

func segmentationInstruction(mode string) string {
	if instruction, ok := segmentationModes[mode]; ok {
		return instruction
	}
	return segmentationModes[models.ModeAuto]
}

// buildSegmentationRequest asks the text model for the scene breakdown as a
// bare JSON array.
func buildSegmentationRequest(scriptText, modeInstruction string, maxScenes int) string {
	return fmt.Sprintf(`You are a storyboard artist segmenting a narration script into visual scenes.

SEGMENTATION RULES:
%s

REQUIREMENTS:
- Produce at most %d scenes, numbered from 1 in script order.
- Every sentence of the script must belong to exactly one scene.
- Keep the narration text exact; do not reword, drop, or reorder it.
- Estimate each scene's spoken duration in seconds.
- Give each scene a one-sentence visual summary.

IMPORTANT: Return ONLY the JSON array, no markdown formatting, no backticks, no code blocks.
A JSON array like this:
[
  {
    "scene_number": 1,
    "narration": "exact narration text for the scene",
    "summary": "one-sentence visual summary",
    "duration_seconds": 4.5
  }
]

SCRIPT:
%s`, modeInstruction, maxScenes, scriptText)
}

// buildImagePromptRequest asks for a single still-image generation prompt for
// the scene, styled per the project.
func buildImagePromptRequest(project *models.Project, draft processing.SceneDraft) string {
	style := project.Style
	if style == "" {
		style = "cinematic, detailed, natural lighting"
	}

	return fmt.Sprintf(`Write a single high-quality text-to-image prompt for one storyboard frame.

PROJECT: %s
VISUAL STYLE (must be reflected in the prompt): %s

SCENE SUMMARY: %s
NARRATION: %s

REQUIREMENTS:
- One continuous text block, no lists, no headings, no quotation marks.
- Describe the setting, subject, and composition concretely.
- Keep the style consistent with the project's visual style above.
- Do not mention cameras moving; this is a still frame.

Write the prompt now, nothing else.`,
		project.Title, style, draft.Summary, draft.Narration)
}

// buildVideoPromptRequest asks for a text-to-video prompt continuing from the
// still frame.
func buildVideoPromptRequest(project *models.Project, draft processing.SceneDraft, imagePrompt string) string {
	return fmt.Sprintf(`Write a single high-quality text-to-video generation prompt for a modern AI video model.

PROJECT: %s
SCENE SUMMARY: %s
STILL FRAME PROMPT (the video starts from this image): %s
TARGET DURATION: about %.0f seconds

REQUIREMENTS:
- One continuous text block.
- MUST include specific camera movement (e.g., Dolly Zoom, Tracking Shot, Wide Angle, Close-up, Pan-right, Tilt-down) and subject action.
- Maintain the styling and color grading of the still frame.
- Do NOT use commas in the generated prompt, only spaces.

Write the prompt now, nothing else.`,
		project.Title, draft.Summary, imagePrompt, draft.DurationSeconds)
}
