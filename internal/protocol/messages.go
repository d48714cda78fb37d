// ABOUTME: Transcoding protocol message type definitions
// ABOUTME: JSON control messages and the binary [op][data] frame format
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/ospx/opuscp/pkg/codec"
)

// Version is the protocol version exchanged in the hello messages
const Version = 1

// Message types
const (
	TypeClientHello     = "client/hello"
	TypeServerHello     = "server/hello"
	TypeCodecConfigure  = "codec/configure"
	TypeCodecConfigured = "codec/configured"
	TypeCodecReset      = "codec/reset"
	TypeServerError     = "server/error"
)

// Binary operation codes, first byte of every binary message
const (
	OpEncode byte = 1
	OpDecode byte = 2
)

// ErrorProtocol is the error code for malformed or unexpected messages
const ErrorProtocol = "protocol"

// Message is the top-level wrapper for all JSON messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// ServerHello is the server's response to client/hello
type ServerHello struct {
	ServerID  string `json:"server_id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	Software  string `json:"software,omitempty"`
	SessionID string `json:"session_id"`
}

// CodecConfig carries codec options. The opus tags let the codec read it
// as a host configuration object.
type CodecConfig struct {
	FrameSize     int32 `json:"frame_size" opus:"frameSize"`
	SampleRate    int32 `json:"sample_rate" opus:"sampleRate"`
	Channels      int32 `json:"channels" opus:"channels"`
	Bitrate       int32 `json:"bitrate" opus:"bitrate"`
	MaxFrameSize  int32 `json:"max_frame_size" opus:"maxFrameSize"`
	MaxPacketSize int32 `json:"max_packet_size" opus:"maxPacketSize"`
}

// NewCodecConfig converts options to a wire config
func NewCodecConfig(opts codec.Options) (CodecConfig, error) {
	cfg, err := codec.ConfigFromOptions(opts)
	if err != nil {
		return CodecConfig{}, err
	}
	return CodecConfig(*cfg), nil
}

// Options reads the config as codec options
func (c CodecConfig) Options() (codec.Options, error) {
	return codec.ReadOptions(codec.StructFields(c))
}

// ServerError reports a failed request
type ServerError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Op      byte   `json:"op,omitempty"`
}

// DecodePayload decodes a generic payload into v
func DecodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}

// BinaryFrame builds a binary message: [op:1][data:N]
func BinaryFrame(op byte, data []byte) []byte {
	frame := make([]byte, 1+len(data))
	frame[0] = op
	copy(frame[1:], data)
	return frame
}

// ParseBinary splits a binary message into its op and data
func ParseBinary(frame []byte) (byte, []byte, error) {
	if len(frame) < 1 {
		return 0, nil, fmt.Errorf("empty binary message")
	}
	op := frame[0]
	if op != OpEncode && op != OpDecode {
		return 0, nil, fmt.Errorf("unknown binary op %d", op)
	}
	return op, frame[1:], nil
}
