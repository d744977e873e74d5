package trace

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "a.jsonl.zst")
	h := Header{Level: "levels/sokoban.yaml", Catalog: "abc", Seed: 9, Collisions: true}
	w, err := Create(path, h)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	recs := []Record{
		{Round: 1, Input: "none", Closures: 0, Digest: "d1"},
		{Round: 2, Input: "right", Closures: 3, Painted: 1, Digest: "d2"},
		{Round: 3, Input: "right", Closures: 2, Outcome: "win", Digest: "d3"},
	}
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	if r.Header() != h {
		t.Fatalf("header %+v, expected %+v", r.Header(), h)
	}
	for i, want := range recs {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("record %d: %+v, expected %+v", i, got, want)
		}
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestHeaderOnlyTraceHasNoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl.zst")
	w, err := Create(path, Header{Level: "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	r, err := Open(path)
	if err != nil {
		t.Fatalf("header-only trace should open: %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
	r.Close()
}
