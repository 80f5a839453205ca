package apidump

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	apierrors "apidiff/internal/errors"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	utf8BOM   = []byte{0xef, 0xbb, 0xbf}
)

// Encoding is the container format detected for a payload.
type Encoding string

const (
	EncodingPlain Encoding = "plain"
	EncodingGzip  Encoding = "gzip"
	EncodingZstd  Encoding = "zstd"
)

// DetectEncoding sniffs the payload's magic bytes.
func DetectEncoding(payload []byte) Encoding {
	switch {
	case bytes.HasPrefix(payload, zstdMagic):
		return EncodingZstd
	case bytes.HasPrefix(payload, gzipMagic):
		return EncodingGzip
	default:
		return EncodingPlain
	}
}

// decodePayload inflates compressed payloads and strips a UTF-8 BOM.
func decodePayload(payload []byte) ([]byte, error) {
	var data []byte
	switch DetectEncoding(payload) {
	case EncodingZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, apierrors.New(apierrors.PayloadDecodeFailed, "failed to create zstd decoder", err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, apierrors.New(apierrors.PayloadDecodeFailed, "failed to inflate zstd payload", err)
		}
	case EncodingGzip:
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, apierrors.New(apierrors.PayloadDecodeFailed, "failed to open gzip payload", err)
		}
		defer zr.Close()
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, apierrors.New(apierrors.PayloadDecodeFailed, "failed to inflate gzip payload", err)
		}
	default:
		data = payload
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}
