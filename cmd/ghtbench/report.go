package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// BenchResult holds the metrics of one workload run.
type BenchResult struct {
	Name     string             `json:"name"`
	Category string             `json:"category"`
	Metrics  map[string]float64 `json:"metrics"`
}

// BenchSummary is the report file format shared by run and compare.
type BenchSummary struct {
	Timestamp string        `json:"timestamp"`
	CommitID  string        `json:"commit_id"`
	Branch    string        `json:"branch"`
	GoVersion string        `json:"go_version"`
	System    string        `json:"system,omitempty"`
	Results   []BenchResult `json:"results"`
}

// memoryStats returns the current heap figures in megabytes.
func memoryStats() map[string]float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return map[string]float64{
		"alloc_mb": float64(m.Alloc) / (1024 * 1024),
		"sys_mb":   float64(m.Sys) / (1024 * 1024),
	}
}

// gitInfo reads the branch and short commit id from the repository at root.
// It falls back to "local"/"dev" outside a checkout.
func gitInfo(root string) (commitID, branch string) {
	commitID, branch = "local", "dev"

	head, err := os.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return commitID, branch
	}

	content := strings.TrimSpace(string(head))
	if !strings.HasPrefix(content, "ref: ") {
		// Detached HEAD holds the commit id directly.
		if len(content) >= 8 {
			commitID = content[:8]
		}
		return commitID, branch
	}

	ref := strings.TrimPrefix(content, "ref: ")
	branch = strings.TrimPrefix(ref, "refs/heads/")
	if data, err := os.ReadFile(filepath.Join(root, ".git", ref)); err == nil {
		commitID = strings.TrimSpace(string(data))
		if len(commitID) >= 8 {
			commitID = commitID[:8]
		}
	}
	return commitID, branch
}

// saveResult appends result to the summary at path, creating the file and
// its directory when needed.
func saveResult(result BenchResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create report directory")
	}

	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get current directory")
	}
	commitID, branch := gitInfo(wd)

	summary := BenchSummary{
		Timestamp: time.Now().Format(time.RFC3339),
		CommitID:  commitID,
		Branch:    branch,
		GoVersion: runtime.Version(),
		System:    runtime.GOOS + "/" + runtime.GOARCH,
	}

	if existing, err := readSummary(path); err == nil {
		summary.Results = existing.Results
	}
	summary.Results = append(summary.Results, result)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "failed to write report")
}

func readSummary(path string) (BenchSummary, error) {
	var summary BenchSummary

	data, err := os.ReadFile(path)
	if err != nil {
		return summary, errors.Wrapf(err, "failed to read %s", path)
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		return summary, errors.Wrapf(err, "failed to parse %s", path)
	}
	return summary, nil
}
