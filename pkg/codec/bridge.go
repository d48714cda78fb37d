// ABOUTME: Host-facing encode/decode entry points
// ABOUTME: Reads configuration per call and runs it on the worker's session
package codec

// Bridge serves hosts that pass a configuration object with every call.
// Sessions are keyed by worker; parameters are first-call-wins per worker
// (see Session).
type Bridge struct {
	store *Store
}

// NewBridge creates a bridge with its own session store
func NewBridge(engine Engine) *Bridge {
	return &Bridge{store: NewStore(engine)}
}

// EncodeFrame reads options from cfg and encodes in[offset:offset+length]
// on worker's session
func (b *Bridge) EncodeFrame(worker string, cfg FieldReader, in []byte, offset, length int) ([]byte, error) {
	opts, err := ReadOptions(cfg)
	if err != nil {
		return nil, err
	}
	return b.store.Session(worker).EncodeFrame(opts, in, offset, length)
}

// DecodeFrame reads options from cfg and decodes the packet in on worker's session
func (b *Bridge) DecodeFrame(worker string, cfg FieldReader, in []byte) ([]byte, error) {
	opts, err := ReadOptions(cfg)
	if err != nil {
		return nil, err
	}
	return b.store.Session(worker).DecodeFrame(opts, in)
}

// EncodeFrameOnThread is EncodeFrame keyed by the calling OS thread.
// The goroutine must be locked to its thread.
func (b *Bridge) EncodeFrameOnThread(cfg FieldReader, in []byte, offset, length int) ([]byte, error) {
	key, err := ThreadKey()
	if err != nil {
		return nil, err
	}
	return b.EncodeFrame(key, cfg, in, offset, length)
}

// DecodeFrameOnThread is DecodeFrame keyed by the calling OS thread
func (b *Bridge) DecodeFrameOnThread(cfg FieldReader, in []byte) ([]byte, error) {
	key, err := ThreadKey()
	if err != nil {
		return nil, err
	}
	return b.DecodeFrame(key, cfg, in)
}

// Release drops worker's session
func (b *Bridge) Release(worker string) {
	b.store.Release(worker)
}

// Sessions returns the number of live worker sessions
func (b *Bridge) Sessions() int {
	return b.store.Len()
}
