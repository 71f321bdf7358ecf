// Package models defines the core data structures shared by the ingestion, retrieval and answering pipeline.
package models

// ItemKind distinguishes course reference notes from forum posts.
type ItemKind string

const (
	// KindNote is a course reference document. Notes carry no URL.
	KindNote ItemKind = "note"
	// KindPost is a single post from a discussion-forum thread.
	KindPost ItemKind = "post"
)

// RetrievableItem is one unit of course material that can be ranked against a question.
// Text is the labeled display text fed both to the embedder and to the prompt.
type RetrievableItem struct {
	ID   string   `json:"id"`
	Kind ItemKind `json:"kind"`
	Text string   `json:"text"`
	URL  string   `json:"url,omitempty"`
}

// HasURL reports whether the item can be offered to the caller as a link.
func (i RetrievableItem) HasURL() bool {
	return i.URL != ""
}

// RankedMatch pairs an item with its cosine similarity to a question.
type RankedMatch struct {
	Item  RetrievableItem `json:"item"`
	Score float64         `json:"score"`
}
