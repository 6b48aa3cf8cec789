// Package tutor implements the active-recall coaching assistant: a static
// concept library plus a per-room session tracking mode and current concept.
package tutor

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Concept is one teachable unit in the content library.
type Concept struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	SampleQuestion string `json:"sample_question"`
}

// Content is the concept library loaded once at process start, indexed by id.
type Content struct {
	concepts []Concept
	byID     map[string]Concept
}

// ParseContent decodes the concept list.
func ParseContent(data []byte) (*Content, error) {
	var concepts []Concept
	if err := json.Unmarshal(data, &concepts); err != nil {
		return nil, fmt.Errorf("decode tutor content: %w", err)
	}
	if len(concepts) == 0 {
		return nil, fmt.Errorf("tutor content has no concepts")
	}
	byID := make(map[string]Concept, len(concepts))
	for _, c := range concepts {
		if c.ID == "" {
			return nil, fmt.Errorf("tutor concept missing id")
		}
		byID[c.ID] = c
	}
	return &Content{concepts: concepts, byID: byID}, nil
}

// LoadContent reads the concept library from path. A missing file is fatal at
// startup.
func LoadContent(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tutor content %q: %w", path, err)
	}
	return ParseContent(data)
}

// Concept looks up a concept by id.
func (c *Content) Concept(id string) (Concept, bool) {
	concept, ok := c.byID[id]
	return concept, ok
}

// IDs returns the known concept ids, sorted.
func (c *Content) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
