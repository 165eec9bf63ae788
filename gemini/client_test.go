package gemini

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key")
	c.baseURL = srv.URL
	c.retries = 1
	return c
}

func textResponse(text string) GenerateResponse {
	return GenerateResponse{
		Candidates: []Candidate{{Content: Content{Parts: []Part{{Text: text}}}}},
	}
}

func TestGenerateText(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query: %s", r.URL.RawQuery)
		}
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected request body: %+v", req)
		}
		json.NewEncoder(w).Encode(textResponse("world"))
	})

	got, err := c.GenerateText("hello")
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if got != "world" {
		t.Errorf("GenerateText() = %q, want %q", got, "world")
	}
}

func TestGenerateTextAPIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	})

	if _, err := c.GenerateText("hello"); err == nil {
		t.Error("expected error for 429 response")
	}
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateResponse{})
	})

	if _, err := c.GenerateText("hello"); err == nil {
		t.Error("expected error for empty candidate list")
	}
}

func TestGenerateJSONStripsFences(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textResponse("```json\n[{\"n\": 1}, {\"n\": 2}]\n```"))
	})

	var out []struct {
		N int `json:"n"`
	}
	if err := c.GenerateJSON("list", &out); err != nil {
		t.Fatalf("GenerateJSON() error = %v", err)
	}
	if len(out) != 2 || out[0].N != 1 || out[1].N != 2 {
		t.Errorf("out = %+v", out)
	}
}

func TestSynthesizeSpeech(t *testing.T) {
	t.Parallel()

	pcm := base64.StdEncoding.EncodeToString([]byte{0x00, 0x01, 0x02, 0x03})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.GenerationConfig == nil || len(req.GenerationConfig.ResponseModalities) != 1 {
			t.Errorf("missing AUDIO response modality: %+v", req.GenerationConfig)
		}
		if got := req.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; got != "Puck" {
			t.Errorf("voice = %q, want Puck", got)
		}
		json.NewEncoder(w).Encode(GenerateResponse{
			Candidates: []Candidate{{Content: Content{Parts: []Part{{
				InlineData: &InlineData{
					MimeType: "audio/L16;codec=pcm;rate=24000",
					Data:     pcm,
				},
			}}}}},
		})
	})

	result, err := c.SynthesizeSpeech("say this", "Puck")
	if err != nil {
		t.Fatalf("SynthesizeSpeech() error = %v", err)
	}
	if result.Data != pcm {
		t.Errorf("Data = %q, want %q", result.Data, pcm)
	}
	if result.SampleRate != 24000 {
		t.Errorf("SampleRate = %d, want 24000", result.SampleRate)
	}
}

func TestSynthesizeSpeechNoAudio(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textResponse("sorry, text only"))
	})

	if _, err := c.SynthesizeSpeech("say this", ""); err == nil {
		t.Error("expected error when response has no audio payload")
	}
}

func TestGenerateImage(t *testing.T) {
	t.Parallel()

	png := []byte{0x89, 'P', 'N', 'G'}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Instances) != 1 || req.Instances[0].Prompt != "a lighthouse" {
			t.Errorf("unexpected predict request: %+v", req)
		}
		json.NewEncoder(w).Encode(predictResponse{
			Predictions: []prediction{{
				BytesBase64Encoded: base64.StdEncoding.EncodeToString(png),
				MimeType:           "image/png",
			}},
		})
	})

	got, err := c.GenerateImage("a lighthouse")
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if string(got) != string(png) {
		t.Errorf("image bytes = %v, want %v", got, png)
	}
}

func TestSampleRateFromMime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mime string
		want int
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000},
		{"audio/L16; rate=16000", 16000},
		{"audio/L16", 24000},
		{"", 24000},
		{"audio/L16;rate=bogus", 24000},
	}
	for _, tc := range tests {
		if got := sampleRateFromMime(tc.mime); got != tc.want {
			t.Errorf("sampleRateFromMime(%q) = %d, want %d", tc.mime, got, tc.want)
		}
	}
}

func TestCleanJSONResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"[1,2]", "[1,2]"},
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  \n```json\n[]\n```\n  ", "[]"},
	}
	for _, tc := range tests {
		if got := CleanJSONResponse(tc.in); got != tc.want {
			t.Errorf("CleanJSONResponse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
