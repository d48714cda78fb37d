// ABOUTME: Configuration reader turning host configuration objects into Options
// ABOUTME: Reads six named int32 fields through a FieldReader
package codec

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Field names read from a host configuration object, in read order
const (
	FieldFrameSize     = "frameSize"
	FieldSampleRate    = "sampleRate"
	FieldChannels      = "channels"
	FieldBitrate       = "bitrate"
	FieldMaxFrameSize  = "maxFrameSize"
	FieldMaxPacketSize = "maxPacketSize"
)

// FieldReader reads a named 32-bit integer field from a configuration object
type FieldReader interface {
	Int32Field(name string) (int32, error)
}

// ReadOptions extracts Options from r. The first field that cannot be read
// aborts the call with ErrConfigRead.
func ReadOptions(r FieldReader) (Options, error) {
	var opts Options
	targets := []struct {
		name string
		dst  *int
	}{
		{FieldFrameSize, &opts.FrameSize},
		{FieldSampleRate, &opts.SampleRate},
		{FieldChannels, &opts.Channels},
		{FieldBitrate, &opts.Bitrate},
		{FieldMaxFrameSize, &opts.MaxFrameSize},
		{FieldMaxPacketSize, &opts.MaxPacketSize},
	}
	for _, t := range targets {
		v, err := r.Int32Field(t.name)
		if err != nil {
			return Options{}, fmt.Errorf("%w: field %q: %w", ErrConfigRead, t.name, err)
		}
		*t.dst = int(v)
	}
	return opts, nil
}

// Config is a host-side configuration object. Hosts may mutate the fields
// between calls; every call reads them afresh.
type Config struct {
	FrameSize     int32 `opus:"frameSize"`
	SampleRate    int32 `opus:"sampleRate"`
	Channels      int32 `opus:"channels"`
	Bitrate       int32 `opus:"bitrate"`
	MaxFrameSize  int32 `opus:"maxFrameSize"`
	MaxPacketSize int32 `opus:"maxPacketSize"`
}

// NewConfig returns a Config holding the default options
func NewConfig() *Config {
	return &Config{
		FrameSize:     DefaultFrameSize,
		SampleRate:    DefaultSampleRate,
		Channels:      DefaultChannels,
		Bitrate:       DefaultBitrate,
		MaxFrameSize:  DefaultMaxFrameSize,
		MaxPacketSize: DefaultMaxPacketSize,
	}
}

// ConfigFromOptions converts opts to a Config, failing if a value does not fit in int32
func ConfigFromOptions(opts Options) (*Config, error) {
	vals := []int{opts.FrameSize, opts.SampleRate, opts.Channels, opts.Bitrate, opts.MaxFrameSize, opts.MaxPacketSize}
	for _, v := range vals {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("%w: value %d does not fit in 32 bits", ErrConfig, v)
		}
	}
	return &Config{
		FrameSize:     int32(opts.FrameSize),
		SampleRate:    int32(opts.SampleRate),
		Channels:      int32(opts.Channels),
		Bitrate:       int32(opts.Bitrate),
		MaxFrameSize:  int32(opts.MaxFrameSize),
		MaxPacketSize: int32(opts.MaxPacketSize),
	}, nil
}

// structReader reads int32 fields of a struct by tag or name
type structReader struct {
	v reflect.Value
}

// StructFields reads fields of the struct v (or pointer to struct).
// A field matches by its `opus` tag or, failing that, by case-insensitive
// name. The field must be declared int32.
func StructFields(v any) FieldReader {
	return structReader{v: reflect.ValueOf(v)}
}

func (r structReader) Int32Field(name string) (int32, error) {
	v := r.v
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return 0, fmt.Errorf("configuration object is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return 0, fmt.Errorf("configuration object is %s, not a struct", v.Kind())
	}

	t := v.Type()
	idx := -1
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get("opus") == name {
			idx = i
			break
		}
		if idx < 0 && strings.EqualFold(f.Name, name) {
			idx = i
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("no field %q on %s", name, t)
	}

	f := v.Field(idx)
	if f.Kind() != reflect.Int32 {
		return 0, fmt.Errorf("field %q is %s, want int32", name, f.Type())
	}
	return int32(f.Int()), nil
}

// MapFields reads fields from a decoded document (YAML, JSON).
// Integer values and integral floats that fit in 32 bits are accepted.
type MapFields map[string]any

func (m MapFields) Int32Field(name string) (int32, error) {
	raw, ok := m[name]
	if !ok {
		return 0, fmt.Errorf("no field %q", name)
	}

	var v int64
	switch n := raw.(type) {
	case int:
		v = int64(n)
	case int8:
		v = int64(n)
	case int16:
		v = int64(n)
	case int32:
		return n, nil
	case int64:
		v = n
	case uint:
		if uint64(n) > math.MaxInt32 {
			return 0, fmt.Errorf("field %q value %d overflows int32", name, n)
		}
		v = int64(n)
	case uint8:
		v = int64(n)
	case uint16:
		v = int64(n)
	case uint32:
		v = int64(n)
	case uint64:
		if n > math.MaxInt32 {
			return 0, fmt.Errorf("field %q value %d overflows int32", name, n)
		}
		v = int64(n)
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("field %q value %v is not an integer", name, n)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("field %q value %v overflows int32", name, n)
		}
		return int32(n), nil
	default:
		return 0, fmt.Errorf("field %q is %T, want int32", name, raw)
	}

	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("field %q value %d overflows int32", name, v)
	}
	return int32(v), nil
}
