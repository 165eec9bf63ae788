package audio

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestDecodePCM16(t *testing.T) {
	t.Parallel()

	// 100, -1, 32767 as little-endian int16
	raw := []byte{0x64, 0x00, 0xFF, 0xFF, 0xFF, 0x7F}
	b64 := base64.StdEncoding.EncodeToString(raw)

	samples, err := DecodePCM16(b64)
	if err != nil {
		t.Fatalf("DecodePCM16() error = %v", err)
	}

	want := []int16{100, -1, 32767}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i, w := range want {
		if samples[i] != w {
			t.Errorf("sample %d = %d, want %d", i, samples[i], w)
		}
	}
}

func TestDecodePCM16Empty(t *testing.T) {
	t.Parallel()

	samples, err := DecodePCM16("")
	if err != nil {
		t.Fatalf("DecodePCM16(\"\") error = %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("got %d samples, want 0", len(samples))
	}
}

func TestDecodePCM16OddLength(t *testing.T) {
	t.Parallel()

	b64 := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03})

	_, err := DecodePCM16(b64)
	if !errors.Is(err, ErrOddPCMLength) {
		t.Errorf("error = %v, want ErrOddPCMLength", err)
	}
}

func TestDecodePCM16InvalidBase64(t *testing.T) {
	t.Parallel()

	if _, err := DecodePCM16("not base64!!"); err == nil {
		t.Error("expected error for invalid base64 input")
	}
}

func TestWAVFromBase64PCM(t *testing.T) {
	t.Parallel()

	raw := []byte{0x64, 0x00, 0xFF, 0xFF} // 100, -1
	b64 := base64.StdEncoding.EncodeToString(raw)

	buf, err := WAVFromBase64PCM(b64, DefaultSampleRate)
	if err != nil {
		t.Fatalf("WAVFromBase64PCM() error = %v", err)
	}
	if len(buf) != 48 {
		t.Errorf("len = %d, want 48", len(buf))
	}
	// Data section carries the raw payload untouched.
	for i, b := range raw {
		if buf[44+i] != b {
			t.Errorf("data byte %d = %#x, want %#x", i, buf[44+i], b)
		}
	}
}

func TestWAVFromBase64PCMOddPayload(t *testing.T) {
	t.Parallel()

	b64 := base64.StdEncoding.EncodeToString([]byte{0x01})
	if _, err := WAVFromBase64PCM(b64, DefaultSampleRate); !errors.Is(err, ErrOddPCMLength) {
		t.Errorf("error = %v, want ErrOddPCMLength", err)
	}
}
