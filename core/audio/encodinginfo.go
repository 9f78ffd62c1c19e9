package audio

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultSampleRate = 16000
	DefaultFormat     = "linear16"
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: encodingFormat(DefaultFormat), Channels: 1}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
	Channels   int
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

// MIMEType is the declared transport media type for raw chunks of this
// encoding, e.g. "audio/pcm;rate=16000".
func (e EncodingInfo) MIMEType() string {
	return fmt.Sprintf("audio/pcm;rate=%d", e.SampleRate)
}

// BytesPerSecond is the wire rate of a single stream in this encoding.
func (e EncodingInfo) BytesPerSecond() int {
	channels := e.Channels
	if channels == 0 {
		channels = 1
	}
	return e.SampleRate * e.Format.ByteSize() * channels
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case encodingFormat("alaw"):
		return 0x55
	case encodingFormat("mulaw"):
		return 0xFF
	case encodingFormat("linear16"):
		return 0
	}

	return 0
}

// ParseMIMEType recovers encoding info from a declared chunk media type of
// the form "audio/pcm;rate=<n>". Unknown or rate-less types fall back to the
// project default so a sloppy remote declaration never drops audio.
func ParseMIMEType(mimeType string) EncodingInfo {
	info := GetDefaultEncodingInfo()

	_, params, found := strings.Cut(mimeType, ";")
	if !found {
		return info
	}
	for param := range strings.SplitSeq(params, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || key != "rate" {
			continue
		}
		if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
			info.SampleRate = rate
		}
	}

	return info
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case encodingFormat("mulaw"), encodingFormat("alaw"):
		return 1
	case encodingFormat("linear16"):
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)
