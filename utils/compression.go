package utils

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Compression algorithm tags stored alongside compressed page text.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
)

// Page text below this size is stored uncompressed; the gzip header
// overhead outweighs any saving.
const compressionThreshold = 500

// CompressText compresses extracted page text for storage, returning
// the payload and the algorithm tag needed to read it back.
func CompressText(text string) ([]byte, string, error) {
	data := []byte(text)
	if len(data) < compressionThreshold {
		return data, CompressionNone, nil
	}

	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		return nil, CompressionNone, fmt.Errorf("failed to write to gzip writer: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, CompressionNone, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return buf.Bytes(), CompressionGzip, nil
}

// DecompressText reverses CompressText given the stored algorithm tag.
func DecompressText(payload []byte, algorithm string) (string, error) {
	switch algorithm {
	case CompressionNone, "":
		return string(payload), nil

	case CompressionGzip:
		reader, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("failed to read from gzip reader: %w", err)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}
