// ABOUTME: Stateful PCM to Opus frame transcoding package
// ABOUTME: Per-worker encoder/decoder sessions with lazy initialization
// Package codec converts raw PCM16 little-endian buffers to Opus packets
// and back.
//
// Each worker (an OS thread, a connection, or any caller-chosen key) owns a
// Session holding at most one encoder and one decoder. Both are created on
// first use from that call's sample rate and channel count and then reused
// for the worker's lifetime: parameters are first-call-wins. A later call
// with a different sample rate or channel count does NOT recreate the
// instance. Call Session.Reset to start over explicitly. Bitrate is applied
// on every encode call.
//
// Example:
//
//	store := codec.NewStore(codec.LibOpus{})
//	sess := store.Session("worker-1")
//	packet, err := sess.EncodeFrame(codec.DefaultOptions(), pcm, 0, len(pcm))
//	pcm, err = sess.DecodeFrame(codec.DefaultOptions(), packet)
//
// Hosts that hand over a configuration object per call use Bridge together
// with a FieldReader such as StructFields or MapFields.
package codec
