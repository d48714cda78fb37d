// ABOUTME: Per-worker codec sessions and the session store
// ABOUTME: Lazily creates one encoder and one decoder per worker
package codec

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Session holds the encoder and decoder owned by one worker.
//
// Instances are created on first use with that call's sample rate and
// channel mode and are never recreated implicitly: later calls with other
// parameters get the existing instance. A Session must not be used from
// more than one goroutine at a time.
type Session struct {
	engine Engine

	encoder     Encoder
	encoderRate int
	encoderMode ChannelMode

	decoder     Decoder
	decoderRate int
	decoderMode ChannelMode
}

// NewSession creates an empty session backed by engine
func NewSession(engine Engine) *Session {
	return &Session{engine: engine}
}

// Encoder returns the session's encoder, creating it on first use
func (s *Session) Encoder(sampleRate int, mode ChannelMode) (Encoder, error) {
	if s.encoder != nil {
		return s.encoder, nil
	}
	enc, err := s.engine.NewEncoder(sampleRate, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: encoder %d Hz %s: %w", ErrCodecInit, sampleRate, mode, err)
	}
	s.encoder = enc
	s.encoderRate = sampleRate
	s.encoderMode = mode
	return enc, nil
}

// Decoder returns the session's decoder, creating it on first use
func (s *Session) Decoder(sampleRate int, mode ChannelMode) (Decoder, error) {
	if s.decoder != nil {
		return s.decoder, nil
	}
	dec, err := s.engine.NewDecoder(sampleRate, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: decoder %d Hz %s: %w", ErrCodecInit, sampleRate, mode, err)
	}
	s.decoder = dec
	s.decoderRate = sampleRate
	s.decoderMode = mode
	return dec, nil
}

// EncoderParams reports the parameters the encoder was created with.
// ok is false until the encoder exists.
func (s *Session) EncoderParams() (sampleRate int, mode ChannelMode, ok bool) {
	return s.encoderRate, s.encoderMode, s.encoder != nil
}

// DecoderParams reports the parameters the decoder was created with
func (s *Session) DecoderParams() (sampleRate int, mode ChannelMode, ok bool) {
	return s.decoderRate, s.decoderMode, s.decoder != nil
}

// Reset drops both instances so the next call creates fresh ones
func (s *Session) Reset() {
	s.encoder = nil
	s.encoderRate = 0
	s.encoderMode = 0
	s.decoder = nil
	s.decoderRate = 0
	s.decoderMode = 0
}

// Store maps worker keys to sessions.
// The map is shared; each Session belongs to the worker that owns its key.
type Store struct {
	engine   Engine
	sessions sync.Map // string -> *Session
	count    atomic.Int64
}

// NewStore creates a store whose sessions use engine
func NewStore(engine Engine) *Store {
	return &Store{engine: engine}
}

// Session returns the session for key, creating an empty one on first access
func (st *Store) Session(key string) *Session {
	if s, ok := st.sessions.Load(key); ok {
		return s.(*Session)
	}
	s, loaded := st.sessions.LoadOrStore(key, NewSession(st.engine))
	if !loaded {
		st.count.Add(1)
	}
	return s.(*Session)
}

// Release forgets the session for key. Call it when the worker ends.
func (st *Store) Release(key string) {
	if _, loaded := st.sessions.LoadAndDelete(key); loaded {
		st.count.Add(-1)
	}
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	return int(st.count.Load())
}
