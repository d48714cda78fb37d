// ABOUTME: Entry point for the Opus transcoding server
// ABOUTME: Reads env defaults, parses CLI flags and starts the server
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ospx/opuscp/internal/config"
	"github.com/ospx/opuscp/internal/server"
	"github.com/ospx/opuscp/internal/version"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("error loading .env: %v", err)
	}

	ctx := context.Background()
	env, err := config.NewServerConfigFromEnv(ctx)
	if err != nil {
		log.Fatalf("error reading server environment: %v", err)
	}
	codecEnv, err := config.NewCodecConfigFromEnv(ctx)
	if err != nil {
		log.Fatalf("error reading codec environment: %v", err)
	}

	var (
		port    = flag.Int("port", env.Port, "WebSocket server port")
		name    = flag.String("name", env.Name, "Server friendly name")
		logFile = flag.String("log-file", env.LogFile, "Log file path")
		debug   = flag.Bool("debug", env.Debug, "Enable debug logging")
		noMDNS  = flag.Bool("no-mdns", !env.EnableMDNS, "Disable mDNS advertisement")
		noTUI   = flag.Bool("no-tui", !env.UseTUI, "Disable TUI, use streaming logs instead")
		profile = flag.String("profile", "", "YAML codec profile file")
		use     = flag.String("use", "", "Profile name to use as the default codec configuration")
		showVer = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		return
	}

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	useTUI := !*noTUI
	if useTUI {
		// TUI owns the terminal
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	opts := codecEnv.Options()
	if *profile != "" {
		pf, err := config.LoadProfiles(*profile)
		if err != nil {
			log.Fatalf("error loading profiles: %v", err)
		}
		if *use == "" {
			log.Fatalf("-profile needs -use (available: %v)", pf.Names())
		}
		if opts, err = pf.Options(*use, opts); err != nil {
			log.Fatalf("error resolving profile: %v", err)
		}
	}

	log.Printf("Starting %s: %s on port %d", version.String(), *name, *port)
	log.Printf("Default codec: %dHz, %d channels, %d bps, frame %d", opts.SampleRate, opts.Channels, opts.Bitrate, opts.FrameSize)
	if *debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Logging to: %s", *logFile)

	srv := server.New(server.Config{
		Port:       *port,
		Name:       *name,
		EnableMDNS: !*noMDNS,
		Debug:      *debug,
		UseTUI:     useTUI,
		Codec:      opts,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
