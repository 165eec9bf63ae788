package tasks

import (
	"encoding/json"
	"testing"
)

func TestMarshalPayload(t *testing.T) {
	t.Parallel()

	data, err := Marshal(StoryboardTaskPayload{JobID: "68a1b2c3d4e5f60718293a4b"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded StoryboardTaskPayload
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		t.Fatalf("unmarshalling payload: %v", err)
	}
	if decoded.JobID != "68a1b2c3d4e5f60718293a4b" {
		t.Errorf("JobID = %q", decoded.JobID)
	}
}

func TestProgressChannel(t *testing.T) {
	t.Parallel()

	got := ProgressChannel("abc123")
	want := "storyboard_progress:abc123"
	if got != want {
		t.Errorf("ProgressChannel = %q, want %q", got, want)
	}
}
