// Package processing provides the OpenAI segmentation provider. It enforces
// the scene breakdown shape with a JSON schema so the response needs no
// fence-stripping or repair.
package processing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// SceneDraft is one segmented scene as returned by the model.
type SceneDraft struct {
	SceneNumber     int     `json:"scene_number" jsonschema_description:"1-based position of the scene in the storyboard."`
	Narration       string  `json:"narration" jsonschema_description:"The exact narration text for this scene, taken from the script without rewording."`
	Summary         string  `json:"summary" jsonschema_description:"A one-sentence visual summary of what happens in this scene."`
	DurationSeconds float64 `json:"duration_seconds" jsonschema_description:"Approximate spoken duration of the narration in seconds."`
}

// SceneBreakdown is the structured output for the segmentation call.
type SceneBreakdown struct {
	Scenes []SceneDraft `json:"scenes" jsonschema_description:"The ordered list of scenes covering the full script."`
}

// GenerateSchema generates a JSON schema for structured outputs.
func GenerateSchema[T any]() interface{} {
	// Structured Outputs uses a subset of JSON schema.
	// These flags are necessary to comply with the subset.
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var sceneBreakdownSchema = GenerateSchema[SceneBreakdown]()

// SegmentScript asks the model to segment the script into scenes following
// the mode instruction, capped at maxScenes.
func SegmentScript(ctx context.Context, apiKey, scriptText, modeInstruction string, maxScenes int) ([]SceneDraft, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	prompt := fmt.Sprintf(`You are a storyboard artist segmenting a narration script into visual scenes.

SEGMENTATION RULES:
%s

Produce at most %d scenes. Every sentence of the script must belong to exactly one scene; do not reword, drop, or reorder narration text. Number scenes from 1 in script order and estimate each scene's spoken duration in seconds.

SCRIPT:
%s`, modeInstruction, maxScenes, scriptText)

	breakdown, err := getStructuredResponse[SceneBreakdown](ctx, client, prompt, sceneBreakdownSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to generate scene breakdown: %w", err)
	}
	if len(breakdown.Scenes) == 0 {
		return nil, fmt.Errorf("model returned no scenes")
	}

	return breakdown.Scenes, nil
}

// getStructuredResponse calls the OpenAI API with JSON schema enforcement.
func getStructuredResponse[T any](ctx context.Context, client openai.Client, prompt string, schema interface{}) (*T, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "structured_response",
		Description: openai.String("Structured data response"),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModelGPT4oMini,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	rawResponse := chatCompletion.Choices[0].Message.Content

	var structuredResponse T
	if err := json.Unmarshal([]byte(rawResponse), &structuredResponse); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI JSON response: %w\nRaw content: %s", err, rawResponse)
	}
	return &structuredResponse, nil
}
