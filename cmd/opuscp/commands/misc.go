// ABOUTME: profiles, discover and version commands
// ABOUTME: Small informational commands
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ospx/opuscp/internal/config"
	"github.com/ospx/opuscp/internal/discovery"
	"github.com/ospx/opuscp/internal/version"
	"github.com/ospx/opuscp/pkg/codec"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles <file>",
	Short: "List codec profiles in a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pf, err := config.LoadProfiles(args[0])
		if err != nil {
			return err
		}
		for _, name := range pf.Names() {
			opts, err := pf.Options(name, codec.DefaultOptions())
			if err != nil {
				fmt.Printf("%-12s invalid: %v\n", name, err)
				continue
			}
			fmt.Printf("%-12s %dHz %dch %dbps frame=%d\n", name, opts.SampleRate, opts.Channels, opts.Bitrate, opts.FrameSize)
		}
		return nil
	},
}

var discoverTimeout time.Duration

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find transcoding servers on the local network",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := discovery.NewManager(discovery.Config{})
		defer mgr.Stop()
		if err := mgr.Browse(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), discoverTimeout)
		defer cancel()

		seen := make(map[string]bool)
		for {
			select {
			case s := <-mgr.Servers():
				if seen[s.URL()] {
					continue
				}
				seen[s.URL()] = true
				fmt.Printf("%s\t%s\n", s.Name, s.URL())
			case <-ctx.Done():
				if len(seen) == 0 {
					fmt.Println("No servers found")
				}
				return nil
			}
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 5*time.Second, "how long to browse")
}
