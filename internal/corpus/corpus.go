// Package corpus parses the scraped course corpus and flattens it into retrievable items.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperjump/askta/internal/models"
)

// Document is a course reference note.
type Document struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Post is one post in a forum thread. Cooked is the rendered HTML body.
type Post struct {
	PostNumber FlexID `json:"post_number"`
	Cooked     string `json:"cooked"`
	Username   string `json:"username,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Thread is a forum topic with its posts.
type Thread struct {
	ID    FlexID `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Posts []Post `json:"posts"`
}

// Aggregate is one scrape result holding reference documents and forum threads.
type Aggregate struct {
	GithubFiles      []Document `json:"github_files"`
	DiscourseThreads []Thread   `json:"discourse_threads"`
}

// Corpus is the parsed corpus: aggregates in file order plus any non-fatal parse warnings.
type Corpus struct {
	Aggregates []Aggregate
	Warnings   []string
}

// FlexID is an identifier that the scraper may emit as a JSON number or string.
// Null, "", 0, and values of any other JSON type decode to the empty FlexID.
type FlexID string

// UnmarshalJSON accepts numbers and strings. Anything else leaves the identifier missing.
func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = ""
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(normalizeID(strings.TrimSpace(s)))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return nil
	}
	*f = FlexID(normalizeID(n.String()))
	return nil
}

// Missing reports whether the identifier is absent.
func (f FlexID) Missing() bool {
	return f == ""
}

func (f FlexID) String() string {
	return string(f)
}

func normalizeID(s string) string {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if i == 0 {
			return ""
		}
		return strconv.FormatInt(i, 10)
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil && fl == float64(int64(fl)) {
		return normalizeID(strconv.FormatInt(int64(fl), 10))
	}
	return s
}

// Parse decodes a corpus that is either a single aggregate object or a list of aggregates.
// Any other top-level shape, or invalid JSON, fails with models.ErrCorpusFormat.
// List elements that are not aggregates, and documents, threads, or posts that fail to
// decode, are skipped and reported in Corpus.Warnings.
func Parse(data []byte) (*Corpus, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", models.ErrCorpusFormat)
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: invalid JSON", models.ErrCorpusFormat)
	}
	c := &Corpus{}
	switch trimmed[0] {
	case '{':
		agg, ok, err := c.parseAggregate(trimmed, "")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrCorpusFormat, err)
		}
		if !ok {
			c.warn("corpus object has neither github_files nor discourse_threads")
			return c, nil
		}
		c.Aggregates = append(c.Aggregates, agg)
		return c, nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrCorpusFormat, err)
		}
		for i, raw := range elems {
			prefix := fmt.Sprintf("element %d: ", i)
			agg, ok, err := c.parseAggregate(raw, prefix)
			if err != nil {
				c.warn("%sskipped: %v", prefix, err)
				continue
			}
			if !ok {
				c.warn("%sskipped: neither github_files nor discourse_threads", prefix)
				continue
			}
			c.Aggregates = append(c.Aggregates, agg)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: top level must be an object or a list of objects", models.ErrCorpusFormat)
	}
}

func (c *Corpus) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

type rawAggregate struct {
	GithubFiles      []json.RawMessage `json:"github_files"`
	DiscourseThreads []json.RawMessage `json:"discourse_threads"`
}

type rawThread struct {
	ID    FlexID            `json:"id"`
	Title string            `json:"title"`
	Slug  string            `json:"slug"`
	Posts []json.RawMessage `json:"posts"`
}

// parseAggregate decodes one aggregate. ok is false when the value is an object carrying neither collection.
// A collection that is not a list fails the aggregate; a malformed entry inside one is skipped with a warning.
func (c *Corpus) parseAggregate(raw json.RawMessage, prefix string) (agg Aggregate, ok bool, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Aggregate{}, false, fmt.Errorf("not an object: %w", err)
	}
	if fields == nil {
		return Aggregate{}, false, fmt.Errorf("not an object")
	}
	_, hasFiles := fields["github_files"]
	_, hasThreads := fields["discourse_threads"]
	if !hasFiles && !hasThreads {
		return Aggregate{}, false, nil
	}
	var ra rawAggregate
	if err := json.Unmarshal(raw, &ra); err != nil {
		return Aggregate{}, false, err
	}
	for i, rd := range ra.GithubFiles {
		var doc Document
		if err := json.Unmarshal(rd, &doc); err != nil {
			c.warn("%sgithub_files[%d] skipped: %v", prefix, i, err)
			continue
		}
		agg.GithubFiles = append(agg.GithubFiles, doc)
	}
	for i, rt := range ra.DiscourseThreads {
		var th rawThread
		if err := json.Unmarshal(rt, &th); err != nil {
			c.warn("%sdiscourse_threads[%d] skipped: %v", prefix, i, err)
			continue
		}
		thread := Thread{ID: th.ID, Title: th.Title, Slug: th.Slug}
		for j, rp := range th.Posts {
			var post Post
			if err := json.Unmarshal(rp, &post); err != nil {
				c.warn("%sdiscourse_threads[%d].posts[%d] skipped: %v", prefix, i, j, err)
				continue
			}
			thread.Posts = append(thread.Posts, post)
		}
		agg.DiscourseThreads = append(agg.DiscourseThreads, thread)
	}
	return agg, true, nil
}
