package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreFetch(t *testing.T) {
	dir := t.TempDir()
	content := []byte("%PDF-1.4 fake")
	if err := os.WriteFile(filepath.Join(dir, "doc.pdf"), content, 0o600); err != nil {
		t.Fatal(err)
	}

	ls := NewLocalStore(dir, 0)
	got, err := ls.Fetch(context.Background(), "doc.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(content) {
		t.Fatal("fetched bytes differ")
	}
}

func TestLocalStoreEnforcesSizeLimit(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "big.pdf"), make([]byte, 1024), 0o600); err != nil {
		t.Fatal(err)
	}

	ls := NewLocalStore(dir, 512)
	if _, err := ls.Fetch(context.Background(), "big.pdf"); err == nil {
		t.Fatal("expected an error for an oversized file")
	}
}

func TestValidateLocator(t *testing.T) {
	cases := []struct {
		locator string
		wantErr bool
	}{
		{"doc.pdf", false},
		{"reports/2025/doc.pdf", false},
		{"", true},
		{"doc.txt", true},
		{"../secrets.pdf", true},
		{"doc|rm.pdf", true},
		{strings.Repeat("a", 256) + ".pdf", true},
	}

	for _, tc := range cases {
		err := validateLocator(tc.locator)
		if tc.wantErr && err == nil {
			t.Errorf("validateLocator(%q) expected error", tc.locator)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("validateLocator(%q) unexpected error: %v", tc.locator, err)
		}
	}
}

func TestResolverUnknownKind(t *testing.T) {
	r := NewResolver(NewLocalStore(t.TempDir(), 0), nil)

	if _, err := r.For("s3"); err == nil {
		t.Fatal("expected an error for an unknown storage kind")
	}
	if _, err := r.For("remote"); err == nil {
		t.Fatal("expected an error when remote storage is not configured")
	}
	if _, err := r.For(""); err != nil {
		t.Fatalf("empty kind should default to local: %v", err)
	}
}
