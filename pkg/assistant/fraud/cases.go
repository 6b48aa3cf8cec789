// Package fraud implements the outbound fraud-verification assistant: it
// loads a case list at startup, attaches one case per room, verifies the
// caller, and writes status changes back to the case store.
package fraud

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Case statuses written by the assistant.
const (
	StatusConfirmedSafe      = "confirmed_safe"
	StatusConfirmedFraud     = "confirmed_fraud"
	StatusVerificationFailed = "verification_failed"
)

// Case is one fraud case from the reference dataset. Status, OutcomeNote,
// and UpdatedAt are the only fields the assistant mutates.
type Case struct {
	CaseID           string  `json:"caseId"`
	UserName         string  `json:"userName"`
	CardEnding       string  `json:"cardEnding"`
	Amount           float64 `json:"amount"`
	MerchantName     string  `json:"merchantName"`
	Location         string  `json:"location,omitempty"`
	Timestamp        string  `json:"timestamp,omitempty"`
	SecurityQuestion string  `json:"securityQuestion"`
	SecurityAnswer   string  `json:"securityAnswer"`
	Status           string  `json:"status"`
	OutcomeNote      string  `json:"outcomeNote"`
	UpdatedAt        string  `json:"updatedAt,omitempty"`
}

// Book holds the full case list and its backing file. Every status change
// rewrites the whole file, so all access is serialized.
type Book struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	cases []*Case
}

// LoadBook reads the case dataset from path. A missing file is fatal at
// startup; no calls can be verified without it.
func LoadBook(path string, logger *slog.Logger) (*Book, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fraud cases %q: %w", path, err)
	}
	var cases []*Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("decode fraud cases %q: %w", path, err)
	}
	return &Book{path: path, logger: logger, cases: cases}, nil
}

// FindByUserName returns a copy of the case whose user name matches,
// compared case-insensitively after trimming.
func (b *Book) FindByUserName(name string) (Case, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.cases {
		if strings.ToLower(strings.TrimSpace(c.UserName)) == needle {
			return *c, true
		}
	}
	return Case{}, false
}

// Get returns a copy of the case with the given id.
func (b *Book) Get(caseID string) (Case, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.cases {
		if c.CaseID == caseID {
			return *c, true
		}
	}
	return Case{}, false
}

// UpdateStatus sets status and outcome note on the case, stamps UpdatedAt,
// and rewrites the whole backing file. The updated case is returned by value.
func (b *Book) UpdateStatus(caseID, status, note string, when time.Time) (Case, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var updated *Case
	for _, c := range b.cases {
		if c.CaseID == caseID {
			c.Status = status
			c.OutcomeNote = note
			c.UpdatedAt = when.UTC().Format(time.RFC3339)
			updated = c
			break
		}
	}
	if updated == nil {
		return Case{}, fmt.Errorf("case %q not found", caseID)
	}

	data, err := json.MarshalIndent(b.cases, "", "  ")
	if err != nil {
		return Case{}, fmt.Errorf("encode fraud cases: %w", err)
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return Case{}, fmt.Errorf("write fraud cases %q: %w", b.path, err)
	}
	b.logger.Info("fraud cases written back", "file", b.path, "case", caseID, "status", status)
	return *updated, nil
}
