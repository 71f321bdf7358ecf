// Package cli provides output helpers for the askta command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/askta/internal/assistant"
	"github.com/hyperjump/askta/internal/corpus"
	"github.com/hyperjump/askta/internal/models"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteAnswer writes an answer and its links to w in the given format.
func WriteAnswer(w io.Writer, result *models.QueryResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, result)
	}
	fmt.Fprintf(w, "\n%s\n", result.Answer)
	if len(result.Links) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nLinks (%d):\n", len(result.Links))
	for i, link := range result.Links {
		fmt.Fprintf(w, "  %d. %s\n", i+1, link.URL)
		if text := strings.TrimSpace(link.Text); text != "" {
			fmt.Fprintf(w, "     %s\n", text)
		}
	}
	return nil
}

// WriteStatus writes a server status report.
func WriteStatus(w io.Writer, status *assistant.Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "items:             %d   # retrievable items in the index\n", status.Items)
	fmt.Fprintf(w, "notes:             %d\n", status.Notes)
	fmt.Fprintf(w, "posts:             %d\n", status.Posts)
	fmt.Fprintf(w, "degraded_items:    %d   # items embedded as zero vectors\n", status.DegradedItems)
	fmt.Fprintf(w, "dimensions:        %d\n", status.Dimensions)
	if status.EmbeddingModel != "" {
		fmt.Fprintf(w, "embedding_model:   %s\n", status.EmbeddingModel)
	}
	if status.CompletionModel != "" {
		fmt.Fprintf(w, "completion_model:  %s\n", status.CompletionModel)
	}
	return nil
}

// WriteCorpusStats writes the summary of a corpus file.
func WriteCorpusStats(w io.Writer, path string, stats corpus.Stats, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, struct {
			Path string `json:"path"`
			corpus.Stats
		}{path, stats})
	}
	fmt.Fprintf(w, "corpus:     %s\n", path)
	fmt.Fprintf(w, "items:      %d\n", stats.Items)
	fmt.Fprintf(w, "notes:      %d\n", stats.Notes)
	fmt.Fprintf(w, "posts:      %d\n", stats.Posts)
	fmt.Fprintf(w, "with_urls:  %d   # items that can become answer links\n", stats.WithURLs)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
