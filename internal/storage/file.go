package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	logx "coldmailer/pkg/logx"
)

// fileStore is a dependency-free persistence backend: one append-only
// JSON Lines file, one attempt per line.
type fileStore struct {
	log logx.Logger

	mu sync.Mutex
	f  *os.File
}

type attemptRecord struct {
	At        string `json:"at"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Outcome   string `json:"outcome"`
	Detail    string `json:"detail,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
	TookMS    int64  `json:"took_ms"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &fileStore{log: log, f: f}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *fileStore) AppendAttempt(_ context.Context, e AttemptEntry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b, err := json.Marshal(attemptRecord{
		At:        e.At.Format(time.RFC3339Nano),
		Recipient: e.Recipient,
		Subject:   e.Subject,
		Outcome:   e.Outcome,
		Detail:    e.Detail,
		DryRun:    e.DryRun,
		TookMS:    e.TookMS,
	})
	if err != nil {
		return err
	}
	b = append(b, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrDisabled
	}
	_, err = s.f.Write(b)
	return err
}
