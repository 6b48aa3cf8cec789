// Package ledger persists finalized records: an append-only history file
// shared by every conversation plus per-identity latest-snapshot files. Both
// are plain JSON documents rewritten whole; the history rewrite is serialized
// process-wide because the underlying read-modify-write cycle is not safe
// under concurrent writers.
package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/identity"
)

// Entry is one immutable history element: the record's fields at the moment
// of finalization plus the originating room and save timestamp.
type Entry map[string]any

// Tag keys added to every history entry.
const (
	TagRoom    = "_room"
	TagSavedAt = "_saved_at"
)

// Ledger writes to one directory: dir/historyName for the append-only history
// and dir/<name> for snapshots. The zero value is not usable; call New.
type Ledger struct {
	dir         string
	historyName string
	logger      *slog.Logger

	now func() time.Time

	mu sync.Mutex
}

// New creates a ledger rooted at dir. The directory is created lazily before
// each write, so a ledger for an assistant that never finalizes leaves no
// trace on disk.
func New(dir, historyName string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		dir:         dir,
		historyName: historyName,
		logger:      logger,
		now:         time.Now,
	}
}

// HistoryPath returns the absolute-ish path of the history file.
func (l *Ledger) HistoryPath() string {
	return filepath.Join(l.dir, l.historyName)
}

// Append constructs a history entry from record, tagged with id and the
// current UTC time, and appends it to the history file. The full existing
// history is read first; a missing or corrupt file counts as an empty history
// (the file is advisory, and a conversation must be able to continue after a
// bad write). The whole cycle runs under the ledger lock so two finalize
// calls can never lose each other's entry.
func (l *Ledger) Append(id identity.Identity, record any) (Entry, error) {
	entry, err := entryFrom(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	entry[TagRoom] = id.String()
	entry[TagSavedAt] = l.now().UTC().Format(time.RFC3339)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.readHistoryLocked()
	history = append(history, entry)

	if err := l.ensureDir(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(l.HistoryPath(), data, 0o644); err != nil {
		return nil, fmt.Errorf("write history %q: %w", l.HistoryPath(), err)
	}
	l.logger.Info("ledger entry appended", "room", id.String(), "file", l.HistoryPath(), "entries", len(history))
	return entry, nil
}

// History returns all entries in append order. Missing or corrupt files read
// as empty; that is deliberate lenient recovery, not data loss handling.
func (l *Ledger) History() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readHistoryLocked()
}

// Tail returns the last n history entries in append order.
func (l *Ledger) Tail(n int) []Entry {
	history := l.History()
	if n <= 0 || n >= len(history) {
		return history
	}
	return history[len(history)-n:]
}

func (l *Ledger) readHistoryLocked() []Entry {
	data, err := os.ReadFile(l.HistoryPath())
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("history unreadable, treating as empty", "file", l.HistoryPath(), "error", err)
		}
		return nil
	}
	var history []Entry
	if err := json.Unmarshal(data, &history); err != nil {
		l.logger.Warn("history corrupt, treating as empty", "file", l.HistoryPath(), "error", err)
		return nil
	}
	return history
}

// WriteSnapshot fully overwrites dir/name with the JSON encoding of record.
// Last write wins; there is no history on this path. name must already be
// filesystem-safe (see identity.SafeFileName).
func (l *Ledger) WriteSnapshot(name string, record any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %q: %w", path, err)
	}
	l.logger.Info("snapshot written", "file", path)
	return nil
}

func (l *Ledger) ensureDir() error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %q: %w", l.dir, err)
	}
	return nil
}

func entryFrom(record any) (Entry, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}
