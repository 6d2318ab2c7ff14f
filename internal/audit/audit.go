// Package audit records created transactions in an append-only file.
//
// Every entry is written as a JSON object followed by ",\n". The file as a
// whole is therefore not a JSON document; ReadEntries knows how to read it
// back.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"finanse/internal/core"
)

// ActionTransactionAdded labels entries produced by a successful insert.
const ActionTransactionAdded = "Transaction added"

// timestampLayout matches JavaScript's Date.prototype.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Entry is one audit record.
type Entry struct {
	Timestamp string           `json:"timestamp"`
	Action    string           `json:"action"`
	Data      core.Transaction `json:"data"`
}

// Sink receives audit entries. Callers treat it as fire-and-forget.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

// NewEntry builds an entry stamped with now in UTC.
func NewEntry(action string, t core.Transaction, now time.Time) Entry {
	return Entry{
		Timestamp: now.UTC().Format(timestampLayout),
		Action:    action,
		Data:      t,
	}
}

// FileSink appends entries to a file on disk.
type FileSink struct {
	mu   sync.Mutex
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Path() string {
	return s.path
}

// Append writes e followed by ",\n". The file is opened per call so that it
// may be rotated or removed externally at any time.
func (s *FileSink) Append(_ context.Context, e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	line = append(line, ',', '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create audit log directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write audit log: %w", err)
	}
	return f.Close()
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Append(context.Context, Entry) error { return nil }

// ReadEntries parses a comma-terminated audit file.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	return DecodeEntries(f)
}

// DecodeEntries parses a stream of JSON objects separated by commas and
// whitespace.
func DecodeEntries(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}

	var out []Entry
	for {
		data = bytes.TrimLeft(data, ", \t\r\n")
		if len(data) == 0 {
			return out, nil
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode audit entry %d: %w", len(out)+1, err)
		}
		out = append(out, e)
		data = data[dec.InputOffset():]
	}
}
