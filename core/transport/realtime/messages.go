package realtime

// Wire message type discriminators. Every frame on the socket is a JSON
// object with a "type" field naming one of these.
const (
	typeSetup                    = "setup"
	typeAudioFrame               = "audio-frame"
	typeToolResponse             = "tool-response"
	typeInputTranscriptFragment  = "input-transcript-fragment"
	typeOutputTranscriptFragment = "output-transcript-fragment"
	typeTurnComplete             = "turn-complete"
	typeInterrupted              = "interrupted"
	typeAudioChunk               = "audio-chunk"
	typeToolCall                 = "tool-call"
	typeKeepAlive                = "keep-alive"
)

type envelope struct {
	Type string `json:"type"`
}

type setupMessage struct {
	Type            string       `json:"type"`
	Voice           string       `json:"voice,omitempty"`
	Scene           string       `json:"scene,omitempty"`
	Instructions    string       `json:"instructions,omitempty"`
	Tools           []toolSchema `json:"tools,omitempty"`
	InputSampleRate int          `json:"inputSampleRate,omitempty"`
}

type toolSchema struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters"`
}

type audioFrameMessage struct {
	Type      string `json:"type"`
	Base64Pcm string `json:"base64Pcm"`
	MIMEType  string `json:"mimeType"`
}

type toolResponseMessage struct {
	Type   string         `json:"type"`
	CallID string         `json:"callId"`
	Name   string         `json:"name"`
	Result map[string]any `json:"result"`
}

type transcriptFragmentMessage struct {
	Text string `json:"text"`
}

type audioChunkMessage struct {
	Base64Pcm string `json:"base64Pcm"`
	MIMEType  string `json:"mimeType"`
}

type toolCallMessage struct {
	CallID    string         `json:"callId"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"args"`
}
