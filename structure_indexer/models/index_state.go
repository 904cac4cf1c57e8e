package models

import "time"

// IndexState is the result of one indexing run over an OpenCart source tree.
type IndexState struct {
	Ready       bool      `json:"ready" yaml:"ready"`
	Root        string    `json:"root" yaml:"root"`
	Version     string    `json:"version" yaml:"version"`
	Controllers []string  `json:"controllers" yaml:"controllers"`
	Models      []string  `json:"models" yaml:"models"`
	Views       []string  `json:"views" yaml:"views"`
	Languages   []string  `json:"languages" yaml:"languages"`
	IndexedAt   time.Time `json:"indexed_at" yaml:"indexed_at"`

	// Partial is set when some directories could not be read. The lists still
	// hold everything that was reachable.
	Partial      bool     `json:"partial" yaml:"partial"`
	BranchErrors []string `json:"branch_errors,omitempty" yaml:"branch_errors,omitempty"`
}

// Clone returns a deep copy so callers never share backing arrays with the indexer.
func (s IndexState) Clone() IndexState {
	s.Controllers = cloneList(s.Controllers)
	s.Models = cloneList(s.Models)
	s.Views = cloneList(s.Views)
	s.Languages = cloneList(s.Languages)
	s.BranchErrors = cloneList(s.BranchErrors)
	return s
}

func cloneList(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// UnknownVersion is reported when no version marker is found.
const UnknownVersion = "unknown"

// Empty is the state before the first successful run.
func Empty() IndexState {
	return IndexState{
		Version:     UnknownVersion,
		Controllers: []string{},
		Models:      []string{},
		Views:       []string{},
		Languages:   []string{},
	}
}
