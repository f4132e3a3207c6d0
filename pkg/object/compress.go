package object

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compression selects how object files are encoded at rest.
type Compression string

const (
	// CompressionNone stores the plain "type\0content" envelope.
	CompressionNone Compression = "none"
	// CompressionZstd stores a zstd frame of the envelope.
	CompressionZstd Compression = "zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ParseCompression maps a config value to a Compression. The empty string
// selects CompressionNone.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(CompressionNone):
		return CompressionNone, nil
	case string(CompressionZstd):
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("unknown compression %q (want %q or %q)", s, CompressionNone, CompressionZstd)
	}
}

// compressZstd compresses data using zstd.
func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// decompressZstd decompresses zstd-compressed data.
func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// isZstdFrame reports whether raw starts with the zstd frame magic. A plain
// envelope always starts with an ASCII kind name, so the two never collide.
func isZstdFrame(raw []byte) bool {
	return bytes.HasPrefix(raw, zstdMagic)
}
