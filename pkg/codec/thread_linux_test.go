// ABOUTME: Tests for Linux thread keys
// ABOUTME: Tests that locked goroutines get stable, distinct keys
package codec

import (
	"runtime"
	"testing"
)

func TestThreadKeyStable(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	first, err := ThreadKey()
	if err != nil {
		t.Fatalf("ThreadKey() failed: %v", err)
	}
	second, _ := ThreadKey()
	if first != second {
		t.Errorf("expected stable key on a locked thread, got %s and %s", first, second)
	}

	other := make(chan string)
	go func() {
		runtime.LockOSThread()
		// stay locked so the thread is not handed back to the scheduler
		key, _ := ThreadKey()
		other <- key
	}()
	if key := <-other; key == first {
		t.Errorf("expected a different key on another locked thread, got %s", key)
	}
}

func TestBridgeOnThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	engine := &fakeEngine{packet: []byte{0xF8}}
	bridge := NewBridge(engine)
	cfg := StructFields(NewConfig())

	for i := 0; i < 3; i++ {
		if _, err := bridge.EncodeFrameOnThread(cfg, make([]byte, 4), 0, 4); err != nil {
			t.Fatal(err)
		}
	}
	if len(engine.encoders) != 1 {
		t.Errorf("expected one encoder for the thread, got %d", len(engine.encoders))
	}

	key, _ := ThreadKey()
	bridge.Release(key)
	if bridge.Sessions() != 0 {
		t.Errorf("expected thread session released, got %d", bridge.Sessions())
	}
}
