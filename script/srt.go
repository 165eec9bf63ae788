// Package script parses uploaded narration scripts. Uploads arrive either as
// plain text or as SRT subtitle files; both are reduced to clean narration
// text before segmentation, and SRT cue timings are kept so the timed
// segmentation mode can honor them.
package script

import (
	"fmt"
	"strconv"
	"strings"
)

// Cue is one SRT subtitle block.
type Cue struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// IsSRT reports whether the content looks like an SRT file rather than plain
// narration text.
func IsSRT(content string) bool {
	return strings.Contains(content, " --> ")
}

// ParseSRT parses SRT content into ordered cues. Blocks with unparsable
// timecodes are skipped rather than failing the whole file; an error is
// returned only when no cue at all could be read.
func ParseSRT(content string) ([]Cue, error) {
	var cues []Cue

	content = strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")

	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}

		// Optional numeric index line before the timecode line.
		i := 0
		index := len(cues) + 1
		if n, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
			index = n
			i = 1
		}
		if i >= len(lines) || !strings.Contains(lines[i], " --> ") {
			continue
		}

		parts := strings.Split(lines[i], " --> ")
		if len(parts) != 2 {
			continue
		}
		start, err := TimecodeToSeconds(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		end, err := TimecodeToSeconds(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}

		text := strings.TrimSpace(strings.Join(lines[i+1:], " "))
		if text == "" {
			continue
		}

		cues = append(cues, Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  text,
		})
	}

	if len(cues) == 0 {
		return nil, fmt.Errorf("no subtitle cues found")
	}
	return cues, nil
}

// TimecodeToSeconds converts an SRT timecode (00:01:30,500) to seconds.
func TimecodeToSeconds(timeStr string) (float64, error) {
	timeStr = strings.ReplaceAll(timeStr, ",", ".")
	parts := strings.Split(timeStr, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time format: expected HH:MM:SS,mmm, got %s", timeStr)
	}

	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours: %v", err)
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes: %v", err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds: %v", err)
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// Clean reduces uploaded content to narration text only. SRT input loses its
// index and timecode lines; plain text loses trailing whitespace and runs of
// blank lines.
func Clean(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	if IsSRT(content) {
		var kept []string
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.Contains(line, " --> ") {
				continue
			}
			if _, err := strconv.Atoi(line); err == nil {
				continue
			}
			kept = append(kept, line)
		}
		return strings.Join(kept, " ")
	}

	var out []string
	blank := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
