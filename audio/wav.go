// Package audio converts the raw PCM payloads returned by speech synthesis
// into playable WAV resources. The speech models return base64-encoded mono
// signed 16-bit little-endian PCM (24000 Hz by default); this package decodes
// that payload and wraps it in a canonical 44-byte RIFF/WAVE header.
package audio

import "encoding/binary"

const (
	headerSize    = 44
	numChannels   = 1
	bitsPerSample = 16
)

// EncodeWAV wraps mono signed 16-bit samples in a standard RIFF/WAVE header.
// The result is a complete, playable PCM WAV file of exactly
// 44 + 2*len(samples) bytes. Encoding is pure: the same samples and rate
// always produce byte-identical output.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := make([]byte, headerSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], numChannels)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*numChannels*bitsPerSample/8))
	binary.LittleEndian.PutUint16(buf[32:34], numChannels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[headerSize+2*i:], uint16(s))
	}

	return buf
}

// WAVFromBase64PCM decodes a base64 raw PCM payload and wraps it in a WAV
// container in one step. This is the path the TTS pipeline uses.
func WAVFromBase64PCM(b64 string, sampleRate int) ([]byte, error) {
	samples, err := DecodePCM16(b64)
	if err != nil {
		return nil, err
	}
	return EncodeWAV(samples, sampleRate), nil
}
