// ABOUTME: WebSocket transcoding server
// ABOUTME: Manages connections, their codec sessions and the request loop
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ospx/opuscp/internal/discovery"
	"github.com/ospx/opuscp/internal/protocol"
	"github.com/ospx/opuscp/internal/version"
	"github.com/ospx/opuscp/pkg/codec"
)

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	EnableMDNS bool
	Debug      bool
	UseTUI     bool

	// Codec is the configuration every connection starts with
	Codec codec.Options

	// Engine creates codec instances; nil means libopus
	Engine codec.Engine
}

// Upper bounds on the buffer sizes a connection may request
const (
	// MaxDecodeFrameSize is 120ms at 48kHz, the longest Opus frame
	MaxDecodeFrameSize = 6 * 960
	// MaxEncodePacketSize is the largest length a packet file can record
	MaxEncodePacketSize = math.MaxUint16
)

// checkLimits validates opts and rejects buffer sizes beyond the Opus limits
func checkLimits(opts codec.Options) error {
	if _, err := opts.Validate(); err != nil {
		return err
	}
	if opts.MaxFrameSize > MaxDecodeFrameSize {
		return fmt.Errorf("%w: max frame size %d exceeds %d", codec.ErrConfig, opts.MaxFrameSize, MaxDecodeFrameSize)
	}
	if opts.MaxPacketSize > MaxEncodePacketSize {
		return fmt.Errorf("%w: max packet size %d exceeds %d", codec.ErrConfig, opts.MaxPacketSize, MaxEncodePacketSize)
	}
	return nil
}

// Server is the transcoding service
type Server struct {
	config   Config
	serverID string

	upgrader websocket.Upgrader

	httpServer *http.Server
	mux        *http.ServeMux

	// Connections keyed by client ID
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// Codec sessions keyed by connection session ID
	bridge  *codec.Bridge
	metrics *Metrics

	mdnsManager *discovery.Manager

	tui       *ServerTUI
	startTime time.Time

	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// Client is a connected client and the codec configuration it selected
type Client struct {
	ID        string
	Name      string
	SessionID string
	Conn      *websocket.Conn

	// config is written only by the connection's reader goroutine; other
	// goroutines read it under mu
	config protocol.CodecConfig
	mu     sync.RWMutex

	encoded atomic.Int64
	decoded atomic.Int64
	failed  atomic.Int64

	sendChan chan interface{}
}

// New creates a new server instance
func New(config Config) *Server {
	if config.Engine == nil {
		config.Engine = codec.LibOpus{}
	}
	if config.Codec == (codec.Options{}) {
		config.Codec = codec.DefaultOptions()
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// Trusted local networks only; browsers are not expected
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[string]*Client),
		bridge:    codec.NewBridge(config.Engine),
		metrics:   NewMetrics(),
		startTime: time.Now(),
		stopChan:  make(chan struct{}),
	}

	s.mux.HandleFunc(discovery.Path, s.handleWebSocket)
	s.mux.Handle("/metrics", s.metrics.Handler())

	return s
}

// Handler returns the HTTP handler serving the WebSocket and metrics endpoints
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start runs the server until Stop, a TUI quit or an HTTP error
func (s *Server) Start() error {
	if err := checkLimits(s.config.Codec); err != nil {
		return fmt.Errorf("default codec configuration: %w", err)
	}

	if s.config.UseTUI {
		s.tui = NewServerTUI()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.tui.Start(s.config.Name, s.config.Port); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()

		// Give TUI time to initialize
		time.Sleep(100 * time.Millisecond)
	}

	log.Printf("Server starting: %s (ID: %s)", s.config.Name, s.serverID)

	if s.tui != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.refreshTUI()
		}()
	}

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("WebSocket server listening on %s%s", addr, discovery.Path)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	var tuiQuitChan <-chan struct{}
	if s.tui != nil {
		tuiQuitChan = s.tui.QuitChan()
	}

	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case <-tuiQuitChan:
		log.Printf("TUI quit requested, shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	if s.tui != nil {
		s.tui.Stop()
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Hijacked websocket connections are not closed by Shutdown
	s.clientsMu.RLock()
	for _, c := range s.clients {
		c.Conn.Close()
	}
	s.clientsMu.RUnlock()

	s.wg.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	if s.config.Debug {
		log.Printf("[DEBUG] New WebSocket connection from %s", r.RemoteAddr)
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.handleConnection(conn)
}

// handleConnection runs the handshake and then the request loop. All codec
// work for the connection happens on this goroutine.
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		log.Printf("Rejecting connection during shutdown")
		return
	}
	s.shutdownMu.RUnlock()

	hello, err := s.readHello(conn)
	if err != nil {
		log.Printf("Handshake failed: %v", err)
		writeDirect(conn, protocol.TypeServerError, protocol.ServerError{
			Error:   protocol.ErrorProtocol,
			Message: err.Error(),
		})
		return
	}

	cfg, err := protocol.NewCodecConfig(s.config.Codec)
	if err == nil {
		err = checkLimits(s.config.Codec)
	}
	if err != nil {
		log.Printf("Invalid default codec configuration: %v", err)
		writeDirect(conn, protocol.TypeServerError, protocol.ServerError{
			Error:   codec.Kind(err),
			Message: err.Error(),
		})
		return
	}

	client := &Client{
		ID:        hello.ClientID,
		Name:      hello.Name,
		SessionID: uuid.New().String(),
		Conn:      conn,
		config:    cfg,
		sendChan:  make(chan interface{}, 100),
	}

	s.clientsMu.Lock()
	if existing, exists := s.clients[client.ID]; exists {
		s.clientsMu.Unlock()
		log.Printf("Client ID %s already connected (name: %s), rejecting duplicate", client.ID, existing.Name)
		writeDirect(conn, protocol.TypeServerError, protocol.ServerError{
			Error:   "duplicate_client_id",
			Message: "Client ID already connected",
		})
		return
	}
	s.clients[client.ID] = client
	s.clientsMu.Unlock()

	log.Printf("Client connected: %s (ID: %s, session: %s)", client.Name, client.ID, client.SessionID)
	s.updateTUI()

	writerDone := make(chan struct{})
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, client.ID)
		s.clientsMu.Unlock()

		s.bridge.Release(client.SessionID)
		s.metrics.sessions.Set(float64(s.bridge.Sessions()))

		close(client.sendChan)
		<-writerDone
		log.Printf("Client disconnected: %s (%d encoded, %d decoded)",
			client.Name, client.encoded.Load(), client.decoded.Load())
		s.updateTUI()
	}()

	go func() {
		defer close(writerDone)
		s.clientWriter(client)
	}()

	if err := s.sendMessage(client, protocol.TypeServerHello, protocol.ServerHello{
		ServerID:  s.serverID,
		Name:      s.config.Name,
		Version:   protocol.Version,
		Software:  version.String(),
		SessionID: client.SessionID,
	}); err != nil {
		log.Printf("Error sending server hello: %v", err)
		return
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			s.handleBinary(client, data)
		case websocket.TextMessage:
			s.handleClientMessage(client, data)
		}
	}
}

// readHello waits for and validates client/hello
func (s *Server) readHello(conn *websocket.Conn) (*protocol.ClientHello, error) {
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("error reading hello: %w", err)
	}

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("error unmarshaling message: %w", err)
	}
	if msg.Type != protocol.TypeClientHello {
		return nil, fmt.Errorf("expected %s, got %s", protocol.TypeClientHello, msg.Type)
	}

	var hello protocol.ClientHello
	if err := protocol.DecodePayload(msg.Payload, &hello); err != nil {
		return nil, err
	}
	if hello.ClientID == "" {
		return nil, fmt.Errorf("client hello missing client_id")
	}
	if hello.Name == "" {
		return nil, fmt.Errorf("client hello missing name")
	}
	return &hello, nil
}

// clientWriter sends queued messages to the client
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	const writeDeadline = 10 * time.Second

	for {
		select {
		case msg, ok := <-client.sendChan:
			if !ok {
				return
			}

			switch v := msg.(type) {
			case []byte:
				client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := client.Conn.WriteMessage(websocket.BinaryMessage, v); err != nil {
					log.Printf("Error writing binary message: %v", err)
					client.Conn.Close()
					drain(client.sendChan)
					return
				}
			default:
				data, err := json.Marshal(v)
				if err != nil {
					log.Printf("Error marshaling message: %v", err)
					continue
				}
				client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
					log.Printf("Error writing text message: %v", err)
					client.Conn.Close()
					drain(client.sendChan)
					return
				}
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				client.Conn.Close()
				drain(client.sendChan)
				return
			}
		}
	}
}

// drain discards queued messages until the channel is closed
func drain(ch <-chan interface{}) {
	for range ch {
	}
}

// handleClientMessage processes JSON control messages
func (s *Server) handleClientMessage(client *Client, data []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(client, protocol.ErrorProtocol, fmt.Sprintf("invalid message: %v", err), 0)
		return
	}

	switch msg.Type {
	case protocol.TypeCodecConfigure:
		s.handleConfigure(client, msg.Payload)
	case protocol.TypeCodecReset:
		s.handleReset(client)
	default:
		s.sendError(client, protocol.ErrorProtocol, fmt.Sprintf("unknown message type: %s", msg.Type), 0)
	}
}

// handleConfigure applies a codec/configure payload on top of the current
// configuration. The codec session is first-call-wins, so a change of
// sample rate or channels starts a new session.
func (s *Server) handleConfigure(client *Client, payload interface{}) {
	next := client.config
	if err := protocol.DecodePayload(payload, &next); err != nil {
		kind := codec.Kind(codec.ErrConfigRead)
		s.metrics.failed(kind)
		s.sendError(client, kind, err.Error(), 0)
		return
	}

	opts, err := next.Options()
	if err == nil {
		err = checkLimits(opts)
	}
	if err != nil {
		s.metrics.failed(codec.Kind(err))
		s.sendError(client, codec.Kind(err), err.Error(), 0)
		return
	}

	if next.SampleRate != client.config.SampleRate || next.Channels != client.config.Channels {
		s.bridge.Release(client.SessionID)
		s.metrics.sessions.Set(float64(s.bridge.Sessions()))
	}
	client.mu.Lock()
	client.config = next
	client.mu.Unlock()
	s.updateTUI()

	if s.config.Debug {
		log.Printf("[DEBUG] %s configured: %+v", client.Name, next)
	}

	if err := s.sendMessage(client, protocol.TypeCodecConfigured, next); err != nil {
		log.Printf("Error sending configured: %v", err)
	}
}

// handleReset drops the connection's codec session
func (s *Server) handleReset(client *Client) {
	s.bridge.Release(client.SessionID)
	s.metrics.sessions.Set(float64(s.bridge.Sessions()))

	if err := s.sendMessage(client, protocol.TypeCodecConfigured, client.config); err != nil {
		log.Printf("Error sending configured: %v", err)
	}
}

// handleBinary transcodes one [op][data] request
func (s *Server) handleBinary(client *Client, data []byte) {
	op, payload, err := protocol.ParseBinary(data)
	if err != nil {
		s.metrics.failed(protocol.ErrorProtocol)
		s.sendError(client, protocol.ErrorProtocol, err.Error(), 0)
		return
	}

	cfg := codec.StructFields(&client.config)
	start := time.Now()

	var out []byte
	var opName string
	switch op {
	case protocol.OpEncode:
		opName = "encode"
		out, err = s.bridge.EncodeFrame(client.SessionID, cfg, payload, 0, len(payload))
	case protocol.OpDecode:
		opName = "decode"
		out, err = s.bridge.DecodeFrame(client.SessionID, cfg, payload)
	}
	s.metrics.sessions.Set(float64(s.bridge.Sessions()))

	if err != nil {
		kind := codec.Kind(err)
		client.failed.Add(1)
		s.metrics.failed(kind)
		if s.config.Debug {
			log.Printf("[DEBUG] %s %s failed: %v", client.Name, opName, err)
		}
		s.sendError(client, kind, err.Error(), op)
		return
	}

	s.metrics.frameDone(opName, len(payload), len(out), time.Since(start))
	if op == protocol.OpEncode {
		client.encoded.Add(1)
	} else {
		client.decoded.Add(1)
	}

	if err := s.sendBinary(client, protocol.BinaryFrame(op, out)); err != nil {
		log.Printf("Error sending %s result to %s: %v", opName, client.Name, err)
	}
}

// sendMessage queues a JSON message for the client
func (s *Server) sendMessage(client *Client, msgType string, payload interface{}) error {
	msg := protocol.Message{
		Type:    msgType,
		Payload: payload,
	}

	select {
	case client.sendChan <- msg:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}

// sendBinary queues binary data for the client
func (s *Server) sendBinary(client *Client, data []byte) error {
	select {
	case client.sendChan <- data:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}

func (s *Server) sendError(client *Client, kind, message string, op byte) {
	if err := s.sendMessage(client, protocol.TypeServerError, protocol.ServerError{
		Error:   kind,
		Message: message,
		Op:      op,
	}); err != nil {
		log.Printf("Error sending error to %s: %v", client.Name, err)
	}
}

// writeDirect writes a message before the client's writer exists
func writeDirect(conn *websocket.Conn, msgType string, payload interface{}) {
	data, err := json.Marshal(protocol.Message{Type: msgType, Payload: payload})
	if err != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	conn.WriteMessage(websocket.TextMessage, data)
}
