// Package sdr implements the sales-lead qualification assistant: FAQ answers
// from a static dataset plus a per-room lead record saved to a leads ledger.
package sdr

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FAQEntry is one question/answer pair in the dataset.
type FAQEntry struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// FAQ is the static reference dataset loaded once at process start.
type FAQ struct {
	Company       string     `json:"company"`
	Overview      string     `json:"overview"`
	WhatWeDo      string     `json:"what_we_do"`
	WhoIsItFor    string     `json:"who_is_it_for"`
	PricingBasics string     `json:"pricing_basics"`
	FreeTier      string     `json:"free_tier"`
	Entries       []FAQEntry `json:"faq"`
}

// ParseFAQ decodes an FAQ document.
func ParseFAQ(data []byte) (*FAQ, error) {
	var f FAQ
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode faq: %w", err)
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("faq has no entries")
	}
	return &f, nil
}

// LoadFAQ reads the FAQ dataset from path. A missing file is fatal at startup.
func LoadFAQ(path string) (*FAQ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq %q: %w", path, err)
	}
	return ParseFAQ(data)
}

// Category keyword rules, checked in order before the generic word-overlap
// scan; first match wins.
var categoryRules = []struct {
	keywords []string
	pick     func(*FAQ) string
}{
	{[]string{"price", "pricing", "cost", "plans"}, func(f *FAQ) string { return f.PricingBasics }},
	{[]string{"free", "trial"}, func(f *FAQ) string { return f.FreeTier }},
	{[]string{"who is this for", "target"}, func(f *FAQ) string { return f.WhoIsItFor }},
	{[]string{"what does your product do", "what do you do"}, func(f *FAQ) string { return f.WhatWeDo }},
}

// Search answers a free-text question: category keyword rules first, then the
// entry whose text shares the most words (longer than two characters) with
// the question, falling back to the overview. Matching is case-insensitive
// substring containment, so the result is deterministic.
func (f *FAQ) Search(question string) string {
	q := strings.ToLower(question)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.pick(f)
			}
		}
	}

	var words []string
	for _, w := range strings.Fields(q) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}

	best := ""
	bestScore := 0
	for _, entry := range f.Entries {
		txt := strings.ToLower(entry.Q + " " + entry.A)
		score := 0
		for _, w := range words {
			if strings.Contains(txt, w) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = entry.A
		}
	}
	if best == "" {
		return f.Overview
	}
	return best
}
