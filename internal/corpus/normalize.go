package corpus

import (
	"fmt"
	"os"
	"strings"

	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/pkg/utils"
	"go.uber.org/zap"
)

const (
	// DefaultTextLimit bounds the body of each item before labeling.
	DefaultTextLimit = 4000
	// DefaultForumBaseURL is the forum that post links point at.
	DefaultForumBaseURL = "https://discourse.onlinedegree.iitm.ac.in"
)

// Normalizer flattens a parsed corpus into retrievable items.
type Normalizer struct {
	forumBaseURL string
	textLimit    int
	logger       *zap.Logger
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithLogger sets the logger used to report skipped entries.
func WithLogger(logger *zap.Logger) NormalizerOption {
	return func(n *Normalizer) {
		n.logger = utils.OrNop(logger)
	}
}

// WithForumBaseURL sets the forum origin used to build post URLs.
func WithForumBaseURL(base string) NormalizerOption {
	return func(n *Normalizer) {
		if base != "" {
			n.forumBaseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTextLimit sets the maximum number of characters kept from each note or post body.
func WithTextLimit(limit int) NormalizerOption {
	return func(n *Normalizer) {
		if limit > 0 {
			n.textLimit = limit
		}
	}
}

// NewNormalizer returns a Normalizer with defaults overridden by opts.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		forumBaseURL: DefaultForumBaseURL,
		textLimit:    DefaultTextLimit,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the corpus items in order: for each aggregate, its notes then its posts.
// Notes with blank content and posts missing a slug, thread id, post number, or body are skipped.
func (n *Normalizer) Normalize(c *Corpus) []models.RetrievableItem {
	items := make([]models.RetrievableItem, 0)
	if c == nil {
		return items
	}
	for _, agg := range c.Aggregates {
		for _, doc := range agg.GithubFiles {
			item, ok := n.noteItem(doc)
			if !ok {
				n.logger.Debug("skipping empty note", zap.String("path", doc.Path))
				continue
			}
			items = append(items, item)
		}
		for _, thread := range agg.DiscourseThreads {
			for _, post := range thread.Posts {
				item, reason := n.postItem(thread, post)
				if reason != "" {
					n.logger.Debug("skipping post",
						zap.String("thread", thread.Title),
						zap.String("thread_id", thread.ID.String()),
						zap.String("post_number", post.PostNumber.String()),
						zap.String("reason", reason))
					continue
				}
				items = append(items, item)
			}
		}
	}
	return items
}

func (n *Normalizer) noteItem(doc Document) (models.RetrievableItem, bool) {
	body := utils.Prefix(doc.Content, n.textLimit)
	if strings.TrimSpace(body) == "" {
		return models.RetrievableItem{}, false
	}
	return models.RetrievableItem{
		ID:   "note:" + doc.Path,
		Kind: models.KindNote,
		Text: fmt.Sprintf("Course Note (%s): %s", doc.Path, body),
	}, true
}

func (n *Normalizer) postItem(thread Thread, post Post) (models.RetrievableItem, string) {
	slug := strings.TrimSpace(thread.Slug)
	switch {
	case slug == "":
		return models.RetrievableItem{}, "missing slug"
	case thread.ID.Missing():
		return models.RetrievableItem{}, "missing thread id"
	case post.PostNumber.Missing():
		return models.RetrievableItem{}, "missing post number"
	}
	body := utils.Prefix(PlainText(post.Cooked), n.textLimit)
	if body == "" {
		return models.RetrievableItem{}, "empty body"
	}
	return models.RetrievableItem{
		ID:   fmt.Sprintf("post:%s/%s", thread.ID, post.PostNumber),
		Kind: models.KindPost,
		Text: fmt.Sprintf("Discourse Post (Thread: %s, Post #%s): %s", thread.Title, post.PostNumber, body),
		URL:  fmt.Sprintf("%s/t/%s/%s/%s", n.forumBaseURL, slug, thread.ID, post.PostNumber),
	}, ""
}

// Load reads the corpus file at path and normalizes it.
// Unreadable files and unrecognized shapes fail with models.ErrCorpusLoad.
func Load(path string, n *Normalizer) ([]models.RetrievableItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrCorpusLoad, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrCorpusLoad, path, err)
	}
	for _, w := range c.Warnings {
		n.logger.Warn("corpus entry skipped", zap.String("path", path), zap.String("detail", w))
	}
	items := n.Normalize(c)
	n.logger.Info("corpus loaded",
		zap.String("path", path),
		zap.Int("aggregates", len(c.Aggregates)),
		zap.Int("items", len(items)))
	return items, nil
}

// Stats summarizes a normalized corpus.
type Stats struct {
	Items    int `json:"items"`
	Notes    int `json:"notes"`
	Posts    int `json:"posts"`
	WithURLs int `json:"with_urls"`
}

// Summarize counts items by kind.
func Summarize(items []models.RetrievableItem) Stats {
	s := Stats{Items: len(items)}
	for _, it := range items {
		switch it.Kind {
		case models.KindNote:
			s.Notes++
		case models.KindPost:
			s.Posts++
		}
		if it.HasURL() {
			s.WithURLs++
		}
	}
	return s
}
