package utils

import (
	"strings"
	"testing"
)

func TestCompressTextRoundTrip(t *testing.T) {
	long := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 50)

	payload, algorithm, err := CompressText(long)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	if algorithm != CompressionGzip {
		t.Fatalf("long text should be compressed, got %q", algorithm)
	}
	if len(payload) >= len(long) {
		t.Fatalf("compression did not shrink the payload: %d >= %d", len(payload), len(long))
	}

	got, err := DecompressText(payload, algorithm)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if got != long {
		t.Fatal("round trip changed the text")
	}
}

func TestCompressTextShortStaysPlain(t *testing.T) {
	short := "page 1 of 2"

	payload, algorithm, err := CompressText(short)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	if algorithm != CompressionNone {
		t.Fatalf("short text should stay uncompressed, got %q", algorithm)
	}

	got, err := DecompressText(payload, algorithm)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if got != short {
		t.Fatal("round trip changed the text")
	}
}

func TestDecompressTextRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := DecompressText([]byte("x"), "zstd"); err == nil {
		t.Fatal("expected an error for an unknown algorithm")
	}
}
