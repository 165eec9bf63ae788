package gemini

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultVoice is used when a project has no voice configured.
const DefaultVoice = "Kore"

// SpeechResult carries the raw synthesized payload back to the caller. Data
// is base64-encoded signed 16-bit little-endian mono PCM; the audio package
// turns it into a playable WAV file.
type SpeechResult struct {
	Data       string
	MimeType   string
	SampleRate int
}

// SynthesizeSpeech asks the TTS model to speak text with the given prebuilt
// voice and returns the raw PCM payload.
func (c *Client) SynthesizeSpeech(text, voice string) (*SpeechResult, error) {
	if voice == "" {
		voice = DefaultVoice
	}

	var result *SpeechResult
	err := c.retryWithExponentialBackoff(func() error {
		resp, err := c.generateContent(DefaultSpeechModel, GenerateRequest{
			Contents: []Content{{Parts: []Part{{Text: text}}}},
			GenerationConfig: &GenerationConfig{
				ResponseModalities: []string{"AUDIO"},
				SpeechConfig: &SpeechConfig{
					VoiceConfig: VoiceConfig{
						PrebuiltVoiceConfig: PrebuiltVoiceConfig{VoiceName: voice},
					},
				},
			},
		})
		if err != nil {
			return err
		}

		inline, err := firstInlineData(resp)
		if err != nil {
			return err
		}

		result = &SpeechResult{
			Data:       inline.Data,
			MimeType:   inline.MimeType,
			SampleRate: sampleRateFromMime(inline.MimeType),
		}
		return nil
	})
	return result, err
}

func firstInlineData(resp *GenerateResponse) (*InlineData, error) {
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no content in response")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return part.InlineData, nil
		}
	}
	return nil, fmt.Errorf("no audio payload in response")
}

// sampleRateFromMime extracts the rate from a mime type such as
// "audio/L16;codec=pcm;rate=24000". Falls back to 24000 when absent.
func sampleRateFromMime(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		param = strings.TrimSpace(param)
		if value, ok := strings.CutPrefix(param, "rate="); ok {
			if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return 24000
}
