package sdr

import (
	"strings"
	"time"
)

// Lead is the per-room record collected across the call.
type Lead struct {
	Name      string `json:"name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	UseCase   string `json:"use_case"`
	TeamSize  string `json:"team_size"`
	Timeline  string `json:"timeline"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

// NewLead returns an empty lead stamped with the current UTC time.
func NewLead() *Lead {
	return &Lead{CreatedAt: time.Now().UTC().Format(time.RFC3339)}
}

// Patch carries optional field updates; empty strings mean "no change".
type Patch struct {
	Name     string
	Company  string
	Email    string
	Role     string
	UseCase  string
	TeamSize string
	Timeline string
	Notes    string
}

// Apply merges p into l and reports whether anything changed. Timeline is
// lowercased. Notes accumulate by appending rather than replacing, so the
// field keeps the whole conversation's context; there is no size cap.
func (l *Lead) Apply(p Patch) bool {
	changed := false
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
			changed = true
		}
	}
	set(&l.Name, p.Name)
	set(&l.Company, p.Company)
	set(&l.Email, p.Email)
	set(&l.Role, p.Role)
	set(&l.UseCase, p.UseCase)
	set(&l.TeamSize, p.TeamSize)
	set(&l.Timeline, strings.ToLower(p.Timeline))

	if note := strings.TrimSpace(p.Notes); note != "" {
		if l.Notes == "" {
			l.Notes = note
		} else {
			l.Notes += " " + note
		}
		changed = true
	}
	return changed
}

// Clone returns a copy safe to use outside the store lock.
func (l *Lead) Clone() *Lead {
	out := *l
	return &out
}
