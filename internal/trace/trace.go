// Package trace records rounds as zstd-compressed JSON lines: one header line
// followed by one record per round.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Header identifies the run a trace belongs to.
type Header struct {
	Level      string `json:"level"`
	Catalog    string `json:"catalog"`
	Seed       int64  `json:"seed"`
	Collisions bool   `json:"collisions,omitempty"`
}

// Record is one round.
type Record struct {
	Round    int    `json:"round"`
	Input    string `json:"input"`
	Closures int    `json:"closures"`
	Painted  int    `json:"painted"`
	Outcome  string `json:"outcome,omitempty"`
	Digest   string `json:"digest"`
}

// Writer appends records to a trace file.
type Writer struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create starts a new trace at path and writes h.
func Create(path string, h Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w := &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	if err := w.line(h); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return w, nil
}

// Write appends r.
func (w *Writer) Write(r Record) error { return w.line(r) }

func (w *Writer) line(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes the stream and closes the file.
func (w *Writer) Close() error {
	var errs []error
	if w.w != nil {
		errs = append(errs, w.w.Flush())
		w.w = nil
	}
	if w.enc != nil {
		errs = append(errs, w.enc.Close())
		w.enc = nil
	}
	if w.f != nil {
		errs = append(errs, w.f.Close())
		w.f = nil
	}
	return errors.Join(errs...)
}

// Reader iterates the records of a trace file.
type Reader struct {
	f      *os.File
	dec    *zstd.Decoder
	sc     *bufio.Scanner
	header Header
}

// Open reads the header of the trace at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r := &Reader{f: f, dec: dec, sc: bufio.NewScanner(dec)}
	r.sc.Buffer(make([]byte, 64*1024), 1024*1024)
	if !r.sc.Scan() {
		err := r.sc.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		r.Close()
		return nil, fmt.Errorf("%s: read header: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(r.sc.Bytes(), &r.header); err != nil {
		r.Close()
		return nil, fmt.Errorf("%s: header: %w", filepath.Base(path), err)
	}
	return r, nil
}

// Header returns the run header.
func (r *Reader) Header() Header { return r.header }

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return rec, err
		}
		return rec, io.EOF
	}
	if err := json.Unmarshal(r.sc.Bytes(), &rec); err != nil {
		return rec, fmt.Errorf("record: %w", err)
	}
	return rec, nil
}

// Close releases the decoder and the file.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}
