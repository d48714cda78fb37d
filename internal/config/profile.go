// ABOUTME: YAML codec profiles
// ABOUTME: Named option sets read through the codec's configuration reader
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/ospx/opuscp/pkg/codec"
)

// ProfileFile is the on-disk profile document:
//
//	profiles:
//	  voice:
//	    channels: 1
//	    bitrate: 24000
type ProfileFile struct {
	Profiles map[string]map[string]any `yaml:"profiles"`
}

// LoadProfiles reads a profile document from path
func LoadProfiles(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles %s: %w", path, err)
	}
	return ParseProfiles(data)
}

// ParseProfiles parses a YAML profile document
func ParseProfiles(data []byte) (*ProfileFile, error) {
	var pf ProfileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &pf, nil
}

// Names returns the profile names in sorted order
func (pf *ProfileFile) Names() []string {
	names := make([]string, 0, len(pf.Profiles))
	for name := range pf.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options resolves profile name on top of base. Fields the profile leaves
// out keep base's values.
func (pf *ProfileFile) Options(name string, base codec.Options) (codec.Options, error) {
	profile, ok := pf.Profiles[name]
	if !ok {
		return codec.Options{}, fmt.Errorf("unknown profile %q (available: %v)", name, pf.Names())
	}

	fields := codec.MapFields{
		codec.FieldFrameSize:     base.FrameSize,
		codec.FieldSampleRate:    base.SampleRate,
		codec.FieldChannels:      base.Channels,
		codec.FieldBitrate:       base.Bitrate,
		codec.FieldMaxFrameSize:  base.MaxFrameSize,
		codec.FieldMaxPacketSize: base.MaxPacketSize,
	}
	for k, v := range profile {
		fields[k] = v
	}

	opts, err := codec.ReadOptions(fields)
	if err != nil {
		return codec.Options{}, fmt.Errorf("profile %q: %w", name, err)
	}
	if _, err := opts.Validate(); err != nil {
		return codec.Options{}, fmt.Errorf("profile %q: %w", name, err)
	}
	return opts, nil
}
