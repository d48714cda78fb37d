// ABOUTME: TUI update helpers for server
// ABOUTME: Snapshots connections and counters for the TUI
package server

import "time"

// refreshTUI pushes a status snapshot every second until Stop
func (s *Server) refreshTUI() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-s.tui.QuitChan():
			return
		case <-ticker.C:
			s.updateTUI()
		}
	}
}

// updateTUI sends current server state to TUI
func (s *Server) updateTUI() {
	if s.tui == nil {
		return
	}
	s.tui.Update(s.status())
}

// status snapshots the server for display
func (s *Server) status() ServerStatus {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	clients := make([]ClientInfo, 0, len(s.clients))
	for _, client := range s.clients {
		client.mu.RLock()
		cfg := client.config
		client.mu.RUnlock()

		clients = append(clients, ClientInfo{
			Name:       client.Name,
			ID:         client.ID,
			SampleRate: int(cfg.SampleRate),
			Channels:   int(cfg.Channels),
			Bitrate:    int(cfg.Bitrate),
			Encoded:    client.encoded.Load(),
			Decoded:    client.decoded.Load(),
			Errors:     client.failed.Load(),
		})
	}

	return ServerStatus{
		Name:     s.config.Name,
		Port:     s.config.Port,
		Uptime:   time.Since(s.startTime),
		Clients:  clients,
		Sessions: s.bridge.Sessions(),
	}
}
