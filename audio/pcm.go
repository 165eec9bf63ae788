package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultSampleRate is the rate the speech synthesis models emit raw PCM at.
const DefaultSampleRate = 24000

// ErrOddPCMLength reports a raw PCM payload whose byte length is not a
// multiple of the 2-byte sample size. Such payloads are rejected rather than
// silently truncated so a malformed upstream response is visible to the caller.
var ErrOddPCMLength = errors.New("pcm payload has odd byte length")

// DecodePCM16 converts a base64-encoded raw PCM payload into mono signed
// 16-bit little-endian samples.
func DecodePCM16(b64 string) ([]int16, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	return SamplesFromLE(raw)
}

// SamplesFromLE reinterprets little-endian bytes as signed 16-bit samples.
func SamplesFromLE(raw []byte) ([]int16, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrOddPCMLength, len(raw))
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return samples, nil
}
