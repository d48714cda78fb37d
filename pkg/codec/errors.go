// ABOUTME: Error kinds reported by the codec package
// ABOUTME: Sentinels for errors.Is plus short wire codes
package codec

import "errors"

var (
	// ErrConfigRead means a configuration field is missing or of the wrong type
	ErrConfigRead = errors.New("opus config read failed")
	// ErrConfig means the options are invalid, e.g. channels outside {0,1,2}
	ErrConfig = errors.New("invalid opus config")
	// ErrCodecInit means the engine rejected the sample rate / channel combination
	ErrCodecInit = errors.New("opus codec init failed")
	// ErrEncode means the engine rejected a frame or the bitrate
	ErrEncode = errors.New("opus encode failed")
	// ErrDecode means the engine rejected a packet
	ErrDecode = errors.New("opus decode failed")
	// ErrNoThreadIdentity is returned by ThreadKey where threads cannot be identified
	ErrNoThreadIdentity = errors.New("thread identity not available")
)

var kinds = []struct {
	err  error
	code string
}{
	{ErrConfigRead, "config_read"},
	{ErrConfig, "config"},
	{ErrCodecInit, "codec_init"},
	{ErrEncode, "encode"},
	{ErrDecode, "decode"},
	{ErrNoThreadIdentity, "thread"},
}

// Kind returns a short code for the error kind, or "internal" when err is
// not one of this package's errors
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return "internal"
}

// KindError returns the sentinel for a code produced by Kind, or nil for
// unknown codes
func KindError(code string) error {
	for _, k := range kinds {
		if k.code == code {
			return k.err
		}
	}
	return nil
}
