// ABOUTME: WebSocket client for the transcoding service
// ABOUTME: Handshake, codec configuration and synchronous encode/decode requests
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ospx/opuscp/internal/discovery"
	"github.com/ospx/opuscp/internal/protocol"
	"github.com/ospx/opuscp/pkg/codec"
)

const defaultTimeout = 10 * time.Second

// Config holds client configuration
type Config struct {
	// ServerAddr is host:port or a full ws:// URL
	ServerAddr string
	ClientID   string
	Name       string
}

// Client is a connection to a transcoding server. Requests are serialized;
// each waits for its reply.
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.Mutex

	hello protocol.ServerHello
}

// RemoteError is a server/error reply. It unwraps to the codec sentinel
// for its kind when there is one.
type RemoteError struct {
	Kind    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server error (%s): %s", e.Kind, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return codec.KindError(e.Kind)
}

// NewClient creates a client; a missing ClientID is generated
func NewClient(config Config) *Client {
	if config.ClientID == "" {
		config.ClientID = uuid.New().String()
	}
	return &Client{config: config}
}

// URL returns the WebSocket URL the client dials
func (c *Client) URL() string {
	addr := c.config.ServerAddr
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return addr
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: discovery.Path}
	return u.String()
}

// Connect establishes the WebSocket connection and performs the handshake
func (c *Client) Connect(ctx context.Context) error {
	log.Printf("Connecting to %s", c.URL())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn

	if err := c.handshake(ctx); err != nil {
		conn.Close()
		c.conn = nil
		return fmt.Errorf("handshake failed: %w", err)
	}
	return nil
}

func (c *Client) handshake(ctx context.Context) error {
	hello := protocol.ClientHello{
		ClientID: c.config.ClientID,
		Name:     c.config.Name,
		Version:  protocol.Version,
	}

	var reply protocol.ServerHello
	if err := c.roundTrip(ctx, protocol.TypeClientHello, hello, protocol.TypeServerHello, &reply); err != nil {
		return err
	}
	c.hello = reply

	log.Printf("Connected to server: %s (session: %s)", reply.Name, reply.SessionID)
	return nil
}

// ServerHello returns the server's handshake reply
func (c *Client) ServerHello() protocol.ServerHello {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hello
}

// Configure sends codec options and returns what the server applied
func (c *Client) Configure(ctx context.Context, opts codec.Options) (codec.Options, error) {
	cfg, err := protocol.NewCodecConfig(opts)
	if err != nil {
		return codec.Options{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var reply protocol.CodecConfig
	if err := c.roundTrip(ctx, protocol.TypeCodecConfigure, cfg, protocol.TypeCodecConfigured, &reply); err != nil {
		return codec.Options{}, err
	}
	return reply.Options()
}

// Reset asks the server to drop the codec session
func (c *Client) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var reply protocol.CodecConfig
	return c.roundTrip(ctx, protocol.TypeCodecReset, struct{}{}, protocol.TypeCodecConfigured, &reply)
}

// Encode encodes one PCM16 frame remotely
func (c *Client) Encode(ctx context.Context, pcm []byte) ([]byte, error) {
	return c.binary(ctx, protocol.OpEncode, pcm)
}

// Decode decodes one Opus packet remotely
func (c *Client) Decode(ctx context.Context, packet []byte) ([]byte, error) {
	return c.binary(ctx, protocol.OpDecode, packet)
}

// EncodeFrame encodes with the default timeout
func (c *Client) EncodeFrame(pcm []byte) ([]byte, error) {
	return c.Encode(context.Background(), pcm)
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) binary(ctx context.Context, op byte, data []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, errors.New("not connected")
	}
	c.setDeadline(ctx)

	if err := c.conn.WriteMessage(websocket.BinaryMessage, protocol.BinaryFrame(op, data)); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	for {
		msgType, reply, err := c.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read reply: %w", err)
		}

		if msgType == websocket.TextMessage {
			if err := replyError(reply); err != nil {
				return nil, err
			}
			continue
		}

		gotOp, result, err := protocol.ParseBinary(reply)
		if err != nil {
			return nil, err
		}
		if gotOp != op {
			return nil, fmt.Errorf("expected reply for op %d, got op %d", op, gotOp)
		}
		return result, nil
	}
}

// roundTrip sends a JSON message and decodes the reply of wantType into out.
// The caller holds c.mu.
func (c *Client) roundTrip(ctx context.Context, msgType string, payload interface{}, wantType string, out interface{}) error {
	if c.conn == nil {
		return errors.New("not connected")
	}
	c.setDeadline(ctx)

	data, err := json.Marshal(protocol.Message{Type: msgType, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", msgType, err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send %s: %w", msgType, err)
	}

	for {
		kind, reply, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", wantType, err)
		}
		if kind != websocket.TextMessage {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(reply, &msg); err != nil {
			return fmt.Errorf("invalid reply: %w", err)
		}
		switch msg.Type {
		case wantType:
			return protocol.DecodePayload(msg.Payload, out)
		case protocol.TypeServerError:
			return decodeServerError(msg.Payload)
		}
	}
}

func (c *Client) setDeadline(ctx context.Context) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultTimeout)
	}
	c.conn.SetReadDeadline(deadline)
	c.conn.SetWriteDeadline(deadline)
}

// replyError returns the error carried by a text reply, or nil for other messages
func replyError(data []byte) error {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("invalid reply: %w", err)
	}
	if msg.Type != protocol.TypeServerError {
		return nil
	}
	return decodeServerError(msg.Payload)
}

func decodeServerError(payload interface{}) error {
	var se protocol.ServerError
	if err := protocol.DecodePayload(payload, &se); err != nil {
		return err
	}
	return &RemoteError{Kind: se.Error, Message: se.Message}
}
