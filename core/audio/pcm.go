package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeFrames converts normalized float samples into 16-bit little-endian
// PCM. Samples outside [-1, 1] are clamped before scaling so clipping never
// wraps around.
func EncodeFrames(samples []float32) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, sample := range samples {
		clamped := math.Max(-1, math.Min(1, float64(sample)))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(clamped*math.MaxInt16)))
	}
	return pcm
}

// DecodeFrames converts 16-bit little-endian PCM into normalized float
// samples. A trailing odd byte is ignored.
func DecodeFrames(pcm []byte) []float32 {
	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / math.MaxInt16
	}
	return samples
}

// Chunk is the transport framing of a raw PCM buffer: base64 payload plus
// the declared media type.
type Chunk struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

// MarshalChunk wraps raw PCM bytes into transport framing.
func MarshalChunk(pcm []byte, info EncodingInfo) Chunk {
	return Chunk{
		Data:     base64.StdEncoding.EncodeToString(pcm),
		MIMEType: info.MIMEType(),
	}
}

// UnmarshalChunk strips the base64 framing and returns the raw PCM buffer.
// Malformed base64 is a hard error; audio is never silently dropped here.
func (c Chunk) UnmarshalChunk() ([]byte, error) {
	pcm, err := base64.StdEncoding.DecodeString(c.Data)
	if err != nil {
		return nil, fmt.Errorf("malformed audio chunk payload: %w", err)
	}
	return pcm, nil
}
