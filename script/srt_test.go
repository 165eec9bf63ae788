package script

import (
	"math"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:04,500
A lighthouse keeper climbs the spiral stairs.

2
00:00:04,500 --> 00:00:09,250
Outside, the storm gathers over the bay.
Waves crash against the rocks.

3
00:00:09,250 --> 00:00:12,000
She lights the lamp.
`

func TestParseSRT(t *testing.T) {
	t.Parallel()

	cues, err := ParseSRT(sampleSRT)
	if err != nil {
		t.Fatalf("ParseSRT() error = %v", err)
	}

	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}

	if cues[0].Index != 1 || cues[0].Text != "A lighthouse keeper climbs the spiral stairs." {
		t.Errorf("cue 0 = %+v", cues[0])
	}
	if math.Abs(cues[0].Start-1.0) > 1e-9 || math.Abs(cues[0].End-4.5) > 1e-9 {
		t.Errorf("cue 0 timing = %f..%f, want 1..4.5", cues[0].Start, cues[0].End)
	}

	// Multi-line cue text joins into one line.
	want := "Outside, the storm gathers over the bay. Waves crash against the rocks."
	if cues[1].Text != want {
		t.Errorf("cue 1 text = %q, want %q", cues[1].Text, want)
	}
}

func TestParseSRTCRLF(t *testing.T) {
	t.Parallel()

	content := "1\r\n00:00:00,000 --> 00:00:02,000\r\nHello there.\r\n\r\n"
	cues, err := ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT() error = %v", err)
	}
	if len(cues) != 1 || cues[0].Text != "Hello there." {
		t.Errorf("cues = %+v", cues)
	}
}

func TestParseSRTSkipsBadTimecodes(t *testing.T) {
	t.Parallel()

	content := `1
garbage --> more garbage
Dropped block.

2
00:00:00,000 --> 00:00:01,000
Kept block.
`
	cues, err := ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT() error = %v", err)
	}
	if len(cues) != 1 || cues[0].Text != "Kept block." {
		t.Errorf("cues = %+v", cues)
	}
}

func TestParseSRTEmpty(t *testing.T) {
	t.Parallel()

	if _, err := ParseSRT("just some prose, no subtitles"); err == nil {
		t.Error("expected error for content without cues")
	}
}

func TestTimecodeToSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"00:00:01,930", 1.93, false},
		{"00:01:30,500", 90.5, false},
		{"01:00:00,000", 3600, false},
		{"02:15:42,125", 8142.125, false},
		{"1:30", 0, true},
		{"aa:bb:cc,ddd", 0, true},
	}

	for _, tc := range tests {
		got, err := TimecodeToSeconds(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("TimecodeToSeconds(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("TimecodeToSeconds(%q) error = %v", tc.in, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("TimecodeToSeconds(%q) = %f, want %f", tc.in, got, tc.want)
		}
	}
}

func TestCleanSRT(t *testing.T) {
	t.Parallel()

	got := Clean(sampleSRT)
	want := "A lighthouse keeper climbs the spiral stairs. Outside, the storm gathers over the bay. Waves crash against the rocks. She lights the lamp."
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestCleanPlainText(t *testing.T) {
	t.Parallel()

	in := "First paragraph.\n\n\n\nSecond paragraph.   \n"
	want := "First paragraph.\n\nSecond paragraph."
	if got := Clean(in); got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestIsSRT(t *testing.T) {
	t.Parallel()

	if !IsSRT(sampleSRT) {
		t.Error("IsSRT(sampleSRT) = false")
	}
	if IsSRT("plain narration text") {
		t.Error("IsSRT(plain) = true")
	}
}
