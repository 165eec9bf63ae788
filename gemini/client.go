// Package gemini wraps the Gemini REST API: text generation for segmentation
// and prompt writing, speech synthesis for scene narration, and Imagen for
// rendered scene images.
package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultTextModel handles segmentation and prompt generation.
	DefaultTextModel = "gemini-2.0-flash"
	// DefaultSpeechModel returns raw PCM audio for narration text.
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	// DefaultImageModel renders storyboard frames.
	DefaultImageModel = "imagen-3.0-generate-002"

	timeout    = 60 * time.Second
	maxRetries = 5
)

// Client handles all Gemini API interactions.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	retries int
}

// NewClient creates a new Gemini client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		retries: maxRetries,
	}
}

// GenerateText sends a prompt to the text model and returns the first
// candidate's text, retrying transient failures with exponential backoff.
func (c *Client) GenerateText(prompt string) (string, error) {
	var result string
	err := c.retryWithExponentialBackoff(func() error {
		resp, err := c.generateContent(DefaultTextModel, GenerateRequest{
			Contents: []Content{{Parts: []Part{{Text: prompt}}}},
		})
		if err != nil {
			return err
		}
		text, err := firstText(resp)
		if err != nil {
			return err
		}
		result = text
		return nil
	})
	return result, err
}

// GenerateJSON generates content and unmarshals the answer into v, stripping
// any markdown code fences the model wrapped around the JSON.
func (c *Client) GenerateJSON(prompt string, v interface{}) error {
	text, err := c.GenerateText(prompt)
	if err != nil {
		return err
	}

	cleaned := CleanJSONResponse(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parsing model JSON response: %w\nRaw content: %s", err, text)
	}
	return nil
}

func (c *Client) generateContent(model string, reqBody GenerateRequest) (*GenerateResponse, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshalling JSON: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "StoryboardAutomation/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var geminiResp GenerateResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, fmt.Errorf("unmarshalling response: %w", err)
	}
	return &geminiResp, nil
}

func firstText(resp *GenerateResponse) (string, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// retryWithExponentialBackoff retries fn with 1s, 2s, 4s... pauses.
func (c *Client) retryWithExponentialBackoff(fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < c.retries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == c.retries-1 {
			break
		}

		backoffDuration := time.Duration(1<<attempt) * time.Second
		fmt.Printf("API call failed (attempt %d/%d), retrying in %v: %v\n",
			attempt+1, c.retries, backoffDuration, lastErr)
		time.Sleep(backoffDuration)
	}

	return fmt.Errorf("API call failed after %d attempts, last error: %w", c.retries, lastErr)
}
