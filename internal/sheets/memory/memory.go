// Package memory is an in-process mirror sheet.
package memory

import (
	"context"
	"fmt"
	"sync"

	"finanse/internal/core"
	ports "finanse/internal/sheets"
)

type Sheet struct {
	mu   sync.Mutex
	rows []core.Transaction
	err  error
}

var (
	_ ports.TransactionWriter = (*Sheet)(nil)
	_ ports.MirrorReader      = (*Sheet)(nil)
)

func New() *Sheet {
	return &Sheet{}
}

// FailWith makes every later call return err; nil restores normal behaviour.
func (s *Sheet) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// AppendTransaction stores t and returns a synthetic row reference.
func (s *Sheet) AppendTransaction(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.rows = append(s.rows, t)
	// Row 1 is the header.
	return fmt.Sprintf("mem!A%d:E%d", len(s.rows)+1, len(s.rows)+1), nil
}

func (s *Sheet) MirroredIDs(_ context.Context) (map[int64]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	ids := make(map[int64]struct{}, len(s.rows))
	for _, r := range s.rows {
		ids[r.ID] = struct{}{}
	}
	return ids, nil
}

// Rows returns a copy of the appended rows in order.
func (s *Sheet) Rows() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.rows...)
}
