package audio

import "testing"

func TestMIMETypeDeclaresRate(t *testing.T) {
	info := EncodingInfo{SampleRate: 24000, Format: EncodingLinear16, Channels: 1}
	if got := info.MIMEType(); got != "audio/pcm;rate=24000" {
		t.Fatalf("expected audio/pcm;rate=24000, got %q", got)
	}
}

func TestParseMIMETypeRecoversRate(t *testing.T) {
	info := ParseMIMEType("audio/pcm;rate=24000")
	if info.SampleRate != 24000 {
		t.Fatalf("expected rate 24000, got %d", info.SampleRate)
	}
	if info.Format != EncodingLinear16 {
		t.Fatalf("expected linear16 format, got %q", info.Format.Name())
	}
}

func TestParseMIMETypeToleratesWhitespaceAndExtraParams(t *testing.T) {
	info := ParseMIMEType("audio/pcm; channels=1; rate=48000")
	if info.SampleRate != 48000 {
		t.Fatalf("expected rate 48000, got %d", info.SampleRate)
	}
}

func TestParseMIMETypeFallsBackToDefault(t *testing.T) {
	for _, mimeType := range []string{"", "audio/pcm", "audio/pcm;rate=banana", "audio/pcm;rate=-1"} {
		info := ParseMIMEType(mimeType)
		if info.SampleRate != DefaultSampleRate {
			t.Fatalf("expected %q to fall back to the default rate, got %d", mimeType, info.SampleRate)
		}
	}
}

func TestBytesPerSecond(t *testing.T) {
	info := GetDefaultEncodingInfo()
	if got := info.BytesPerSecond(); got != DefaultSampleRate*2 {
		t.Fatalf("expected %d bytes per second, got %d", DefaultSampleRate*2, got)
	}
}
