// ABOUTME: Local and remote frame transcoders for the CLI
// ABOUTME: Local runs on a thread-keyed bridge, remote on an opuscp server
package commands

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ospx/opuscp/internal/client"
	"github.com/ospx/opuscp/pkg/codec"
)

// transcoder runs frames through a codec session, local or remote
type transcoder interface {
	EncodeFrame(pcm []byte) ([]byte, error)
	DecodeFrame(packet []byte) ([]byte, error)
	Close() error
}

// localTranscoder runs on an in-process bridge keyed by the OS thread
type localTranscoder struct {
	bridge *codec.Bridge
	cfg    *codec.Config
	worker string
}

func newLocalTranscoder(engine codec.Engine, opts codec.Options) (*localTranscoder, error) {
	cfg, err := codec.ConfigFromOptions(opts)
	if err != nil {
		return nil, err
	}

	// one thread, one session
	runtime.LockOSThread()
	worker, err := codec.ThreadKey()
	if err != nil {
		worker = "opuscp"
	}

	return &localTranscoder{
		bridge: codec.NewBridge(engine),
		cfg:    cfg,
		worker: worker,
	}, nil
}

func (t *localTranscoder) EncodeFrame(pcm []byte) ([]byte, error) {
	return t.bridge.EncodeFrame(t.worker, codec.StructFields(t.cfg), pcm, 0, len(pcm))
}

func (t *localTranscoder) DecodeFrame(packet []byte) ([]byte, error) {
	return t.bridge.DecodeFrame(t.worker, codec.StructFields(t.cfg), packet)
}

func (t *localTranscoder) Close() error {
	t.bridge.Release(t.worker)
	runtime.UnlockOSThread()
	return nil
}

// remoteTranscoder sends frames to an opuscp server
type remoteTranscoder struct {
	client *client.Client
}

func newRemoteTranscoder(addr string, opts codec.Options) (*remoteTranscoder, error) {
	c := client.NewClient(client.Config{ServerAddr: addr, Name: "opuscp"})

	ctx := context.Background()
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	applied, err := c.Configure(ctx, opts)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to configure server: %w", err)
	}
	if applied != opts {
		c.Close()
		return nil, fmt.Errorf("server applied %+v, wanted %+v", applied, opts)
	}
	return &remoteTranscoder{client: c}, nil
}

func (t *remoteTranscoder) EncodeFrame(pcm []byte) ([]byte, error) {
	return t.client.EncodeFrame(pcm)
}

func (t *remoteTranscoder) DecodeFrame(packet []byte) ([]byte, error) {
	return t.client.Decode(context.Background(), packet)
}

func (t *remoteTranscoder) Close() error {
	return t.client.Close()
}

// openTranscoder picks a remote or local transcoder from the global flags
func openTranscoder(opts codec.Options) (transcoder, error) {
	addr, err := remoteAddr()
	if err != nil {
		return nil, err
	}
	if addr != "" {
		return newRemoteTranscoder(addr, opts)
	}
	return newLocalTranscoder(codec.LibOpus{}, opts)
}
