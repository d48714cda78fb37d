// ABOUTME: Tests for the server TUI model
// ABOUTME: Rendering of connection stats and safe updates after stop
package server

import (
	"strings"
	"testing"
	"time"
)

func TestTUIViewShowsClients(t *testing.T) {
	m := tuiModel{
		status: ServerStatus{
			Name:     "studio",
			Port:     8927,
			Sessions: 1,
			Clients: []ClientInfo{{
				Name: "mixer", SampleRate: 48000, Channels: 2, Bitrate: 96000,
				Encoded: 12, Decoded: 3,
			}},
		},
		startTime: time.Now(),
	}

	view := m.View()
	for _, want := range []string{"studio", "8927", "Connected Clients (1)", "mixer", "48000Hz 2ch 96kbps, 12 encoded, 3 decoded, 0 errors"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestTUIViewNoClients(t *testing.T) {
	m := tuiModel{startTime: time.Now()}
	if !strings.Contains(m.View(), "No clients connected") {
		t.Error("expected empty client message")
	}
}

func TestTUIUpdateAfterStop(t *testing.T) {
	tui := NewServerTUI()
	tui.Stop()
	tui.Stop()
	tui.Update(ServerStatus{Name: "late"})
}

func TestServerStatus(t *testing.T) {
	srv := New(Config{Name: "status", Port: 1234})
	st := srv.status()
	if st.Name != "status" || st.Port != 1234 || len(st.Clients) != 0 || st.Sessions != 0 {
		t.Errorf("unexpected status %+v", st)
	}
}
