// Package report writes the optional YAML record of a batch run.
package report

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Status values for a run.
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)

// Report is the record of one run.
type Report struct {
	ID           string       `yaml:"id"`
	Version      string       `yaml:"version,omitempty"`
	Timestamp    time.Time    `yaml:"timestamp"`
	InputFile    string       `yaml:"input_file"`
	InputHash    string       `yaml:"input_hash,omitempty"`
	Status       string       `yaml:"status"`
	Error        string       `yaml:"error,omitempty"`
	Duration     int64        `yaml:"duration_ms"`
	Repositories []Repository `yaml:"repositories"`
}

// Repository is the record of one manifest line.
type Repository struct {
	Line     int    `yaml:"line"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Branch   string `yaml:"branch"`
	Path     string `yaml:"path,omitempty"`
	Dest     string `yaml:"dest"`
	Outcome  string `yaml:"outcome"`
	Reason   string `yaml:"reason,omitempty"`
	Commit   string `yaml:"commit,omitempty"`
	Attempts int    `yaml:"attempts,omitempty"`
	Duration int64  `yaml:"duration_ms"`
}

// New starts a report for the given run.
func New(id, inputFile string, started time.Time) *Report {
	return &Report{ID: id, InputFile: inputFile, Timestamp: started.UTC(), Repositories: []Repository{}}
}

// Add appends a repository record.
func (r *Report) Add(repo Repository) { r.Repositories = append(r.Repositories, repo) }

// Finish sets the final status from err and the elapsed time since Timestamp.
func (r *Report) Finish(status string, err error, now time.Time) {
	r.Status = status
	if err != nil {
		r.Error = err.Error()
	}
	r.Duration = now.Sub(r.Timestamp).Milliseconds()
}

// Counts returns how many repositories ended in each outcome.
func (r *Report) Counts() map[string]int {
	counts := map[string]int{}
	for _, repo := range r.Repositories {
		counts[repo.Outcome]++
	}
	return counts
}

// HashInput computes the sha256 of the batch file contents.
func HashInput(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// Encode writes the report as YAML.
func (r *Report) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the report to path, replacing it atomically.
func (r *Report) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gitbatch-report-*")
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := r.Encode(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// Load reads a report written by WriteFile.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller supplied report path
	if err != nil {
		return nil, err
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &r, nil
}
