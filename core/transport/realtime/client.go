// Package realtime implements the duplex websocket connection to the
// realtime voice model. It encodes outbound microphone frames and tool
// responses, decodes inbound transcript, audio, turn and tool messages into
// typed events, and hands them to the configured callback in arrival order.
package realtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vela-voice/vela-core/core/audio"
	"github.com/vela-voice/vela-core/core/events"
	"github.com/vela-voice/vela-core/core/transport"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultSessionURL = "wss://realtime.vela-voice.dev/v1/session"
	keepAliveInterval = 5 * time.Second
)

// Client is a live connection to the realtime voice model. All writes are
// serialized; reads happen on a dedicated goroutine started by NewClient.
type Client struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	options transport.Options

	closed    atomic.Bool
	closeOnce sync.Once
	readDone  chan struct{}
}

// NewClient dials the realtime endpoint, sends the setup message and starts
// the read loop. The connection is live when NewClient returns without error.
func NewClient(ctx context.Context, opts ...transport.Option) (*Client, error) {
	ctx, span := tracer.Start(ctx, "realtime.Connect")
	defer span.End()

	options := transport.Options{}
	for _, opt := range opts {
		opt(&options)
	}

	conn, err := connectWebsocket(ctx, options.Setup)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "websocket dial failed")
		return nil, fmt.Errorf("failed to open realtime websocket: %w", err)
	}

	client := &Client{
		conn:     conn,
		options:  options,
		readDone: make(chan struct{}),
	}

	if err := client.sendSetup(options.Setup); err != nil {
		conn.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "setup rejected")
		return nil, fmt.Errorf("failed to send session setup: %w", err)
	}

	go client.readAndProcessMessages(ctx, conn)
	go client.keepAlive(ctx)

	return client, nil
}

func connectWebsocket(ctx context.Context, setup transport.Setup) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("VELA_API_KEY")
	if !ok {
		return nil, fmt.Errorf("vela api key not found")
	}

	sessionURL, _ := url.Parse(defaultSessionURL)
	queryParams := sessionURL.Query()
	if setup.Voice != "" {
		queryParams.Set("voice", setup.Voice)
	}
	if setup.InputSampleRate > 0 {
		queryParams.Set("input_sample_rate", strconv.Itoa(setup.InputSampleRate))
	}
	queryParams.Set("encoding", "linear16")

	sessionURL.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, sessionURL.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection: %w", err)
	}

	return conn, nil
}

func (c *Client) sendSetup(setup transport.Setup) error {
	tools := make([]toolSchema, 0, len(setup.Tools))
	for _, tool := range setup.Tools {
		tools = append(tools, toolSchema{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}

	return c.writeJSON(setupMessage{
		Type:            typeSetup,
		Voice:           setup.Voice,
		Scene:           setup.Scene,
		Instructions:    setup.Instructions,
		Tools:           tools,
		InputSampleRate: setup.InputSampleRate,
	})
}

// SendAudio forwards one captured microphone frame to the model.
func (c *Client) SendAudio(pcm []byte, encoding audio.EncodingInfo) error {
	if c.closed.Load() {
		return fmt.Errorf("realtime connection is closed")
	}
	return c.writeJSON(audioFrameMessage{
		Type:      typeAudioFrame,
		Base64Pcm: base64.StdEncoding.EncodeToString(pcm),
		MIMEType:  encoding.MIMEType(),
	})
}

// SendToolResponse acknowledges a tool call back to the model.
func (c *Client) SendToolResponse(response events.ToolCallResponded) error {
	if c.closed.Load() {
		return fmt.Errorf("realtime connection is closed")
	}
	return c.writeJSON(toolResponseMessage{
		Type:   typeToolResponse,
		CallID: response.CallID,
		Name:   response.Name,
		Result: response.Result,
	})
}

func (c *Client) writeJSON(msg any) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to realtime connection: %w", err)
	}
	return nil
}

func (c *Client) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.readDone:
			return
		case <-ticker.C:
			if c.closed.Load() {
				return
			}
			if err := c.writeJSON(envelope{Type: typeKeepAlive}); err != nil {
				logger.Warn("Failed to send keep-alive", "error", err)
			}
		}
	}
}

// Close ends the connection. The close callback fires exactly once, from the
// read loop, after the socket is fully drained.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.connMu.Lock()
		defer c.connMu.Unlock()

		deadline := time.Now().Add(time.Second)
		if writeErr := c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			deadline); writeErr != nil {
			err = c.conn.Close()
			return
		}
	})
	return err
}

func (c *Client) readAndProcessMessages(ctx context.Context, conn *websocket.Conn) {
	defer close(c.readDone)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || c.closed.Load() {
				c.notifyClose(nil)
			} else {
				logger.Warn("Realtime websocket read failed", "error", err)
				c.notifyClose(err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			c.processMessage(ctx, msg)
		}
	}
}

func (c *Client) notifyClose(err error) {
	c.closed.Store(true)
	if c.options.CloseCallback != nil {
		c.options.CloseCallback(err)
	}
}

func (c *Client) processMessage(_ context.Context, msg []byte) {
	var parsedMsg envelope
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("Failed to unmarshal realtime message", "error", err)
		return
	}

	switch parsedMsg.Type {
	case typeInputTranscriptFragment:
		var fragment transcriptFragmentMessage
		if err := json.Unmarshal(msg, &fragment); err != nil {
			logger.Warn("Failed to unmarshal transcript fragment", "error", err)
			return
		}
		c.emit(events.NewUserTranscriptFragment(fragment.Text))

	case typeOutputTranscriptFragment:
		var fragment transcriptFragmentMessage
		if err := json.Unmarshal(msg, &fragment); err != nil {
			logger.Warn("Failed to unmarshal transcript fragment", "error", err)
			return
		}
		c.emit(events.NewAgentTranscriptFragment(fragment.Text))

	case typeTurnComplete:
		c.emit(events.NewTurnCompleted())

	case typeInterrupted:
		c.emit(events.NewTurnInterrupted())

	case typeAudioChunk:
		var chunk audioChunkMessage
		if err := json.Unmarshal(msg, &chunk); err != nil {
			logger.Warn("Failed to unmarshal audio chunk", "error", err)
			return
		}
		c.emit(events.NewAgentAudioChunk(audio.Chunk{
			Data:     chunk.Base64Pcm,
			MIMEType: chunk.MIMEType,
		}))

	case typeToolCall:
		var call toolCallMessage
		if err := json.Unmarshal(msg, &call); err != nil {
			logger.Warn("Failed to unmarshal tool call", "error", err)
			return
		}
		c.emit(events.NewToolCallRequested(call.CallID, call.Name, call.Arguments))

	default:
		logger.Debug("Ignoring unknown realtime message", "type", parsedMsg.Type)
	}
}

func (c *Client) emit(event events.Event) {
	if c.options.EventCallback != nil {
		c.options.EventCallback(event)
	}
}
