// ABOUTME: Entry point for the opuscp command line tool
// ABOUTME: Runs the cobra command tree
// Command opuscp encodes audio files to Opus packet streams and back.
//
// Usage:
//
//	opuscp [flags] <command> [args]
//
// Commands:
//
//	encode     - Encode an MP3, FLAC or raw PCM file to an Opus packet stream
//	decode     - Decode an Opus packet stream to raw PCM
//	roundtrip  - Encode and decode a file, reporting sizes
//	profiles   - List codec profiles in a YAML file
//	discover   - Find transcoding servers on the local network
//	version    - Print the version
package main

import (
	"fmt"
	"os"

	"github.com/ospx/opuscp/cmd/opuscp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
