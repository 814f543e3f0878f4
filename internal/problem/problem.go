// Package problem loads and serves the process-wide problem catalog: the
// set of programming exercises available for submission. Problems are
// loaded once at startup and are read-only thereafter (spec.md §3
// "Ownership & lifecycles").
package problem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Case is one input/output pair, either a sample shown to the student or a
// hidden case used for grading.
type Case struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Problem is a single graded exercise.
type Problem struct {
	ID           string `json:"-"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Difficulty   string `json:"difficulty"`
	SampleCases  []Case `json:"sample_cases"`
	HiddenCases  []Case `json:"hidden_cases"`
}

// Summary is the shape returned by the (external) /problems endpoint: it
// never exposes hidden cases, only their count (spec.md Invariant I6).
type Summary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SampleCases []Case `json:"sample_cases"`
	Difficulty  string `json:"difficulty"`
	CaseCount   int    `json:"case_count"`
}

// Catalog is the read-only, process-wide problem set.
type Catalog struct {
	problems map[string]Problem
}

// Load reads problems.json from dataDir. A missing file yields an empty,
// valid catalog rather than an error — an empty catalog is a legitimate
// (if uninteresting) startup state.
func Load(dataDir string) (*Catalog, error) {
	path := filepath.Join(dataDir, "problems.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{problems: map[string]Problem{}}, nil
		}
		return nil, fmt.Errorf("loading problem catalog: %w", err)
	}

	var raw map[string]Problem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing problem catalog: %w", err)
	}

	problems := make(map[string]Problem, len(raw))
	for id, p := range raw {
		p.ID = id
		problems[id] = p
	}
	return &Catalog{problems: problems}, nil
}

// Get returns a problem by id. The bool mirrors ordinary map lookups; this
// is what callers use to surface a 404 at the transport layer.
func (c *Catalog) Get(id string) (Problem, bool) {
	p, ok := c.problems[id]
	return p, ok
}

// Summaries returns every problem's public-facing shape, hidden cases
// excluded, for the /problems endpoint.
func (c *Catalog) Summaries() map[string]Summary {
	out := make(map[string]Summary, len(c.problems))
	for id, p := range c.problems {
		difficulty := p.Difficulty
		if difficulty == "" {
			difficulty = "Unknown"
		}
		out[id] = Summary{
			Title:       p.Title,
			Description: p.Description,
			SampleCases: p.SampleCases,
			Difficulty:  difficulty,
			CaseCount:   len(p.HiddenCases),
		}
	}
	return out
}
