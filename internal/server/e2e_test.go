package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/hyperjump/askta/internal/answer"
	"github.com/hyperjump/askta/internal/assistant"
	"github.com/hyperjump/askta/internal/config"
	"github.com/hyperjump/askta/internal/corpus"
	"github.com/hyperjump/askta/internal/embedding"
	"github.com/hyperjump/askta/internal/llm"
	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/internal/retrieval"
	"github.com/hyperjump/askta/internal/vector"
	"go.uber.org/zap"
)

var e2eTopics = []string{
	"Docker container images for the project",
	"Submitting graded assignment one",
	"Pandas dataframe merge errors",
	"Deadline extension for project two",
	"Vercel deployment of the API",
	"Embedding models and cosine similarity",
	"Regex question in the quiz",
	"Bonus marks for early submission",
}

func buildE2ECorpus() []byte {
	var posts []string
	for i, topic := range e2eTopics {
		posts = append(posts, fmt.Sprintf(`{"post_number": %d, "cooked": "<p>%s</p>"}`, i+1, topic))
	}
	return []byte(fmt.Sprintf(`{
  "github_files": [{"path": "intro.md", "content": "Course introduction"}],
  "discourse_threads": [{"title": "Course FAQ", "id": 100, "slug": "course-faq", "posts": [%s]}]
}`, strings.Join(posts, ",")))
}

func newE2EHandler(t *testing.T) (http.Handler, []models.RetrievableItem) {
	t.Helper()
	c, err := corpus.Parse(buildE2ECorpus())
	if err != nil {
		t.Fatal(err)
	}
	items := corpus.NewNormalizer(corpus.WithForumBaseURL("https://forum.example")).Normalize(c)

	emb := embedding.NewMockEmbedder(64)
	idx, err := vector.Build(context.Background(), items, emb)
	if err != nil {
		t.Fatal(err)
	}
	completer := llm.CompleterFunc(func(ctx context.Context, r llm.Request) (string, error) {
		return `{"answer":"See the linked posts."}`, nil
	})
	a := assistant.New(
		retrieval.NewRetriever(emb, idx),
		answer.NewSynthesizer(completer),
		assistant.Status{Items: idx.Size(), Dimensions: idx.Dimensions()},
		zap.NewNop(),
	)
	return NewServer(a, &config.ServerConfig{}, zap.NewNop()).Router(), items
}

func TestE2E_questionMatchingPostLinksItFirst(t *testing.T) {
	h, items := newE2EHandler(t)
	if len(items) != len(e2eTopics)+1 {
		t.Fatalf("items: got %d", len(items))
	}
	for _, item := range items {
		if item.Kind != models.KindPost {
			continue
		}
		body, _ := json.Marshal(models.AskRequest{Question: item.Text})
		w := do(h, http.MethodPost, "/api/", string(body))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d, body %s", item.ID, w.Code, w.Body.String())
		}
		var out models.QueryResult
		if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if out.Answer != "See the linked posts." {
			t.Errorf("%s: answer %q", item.ID, out.Answer)
		}
		if len(out.Links) == 0 || out.Links[0].URL != item.URL {
			t.Errorf("%s: first link %+v, want %s", item.ID, out.Links, item.URL)
		}
		if len(out.Links) > 3 {
			t.Errorf("%s: %d links exceed top-k", item.ID, len(out.Links))
		}
	}
}

func TestE2E_statusReportsIndex(t *testing.T) {
	h, _ := newE2EHandler(t)
	w := do(h, http.MethodGet, "/api/v1/status", "")
	var out assistant.Status
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Items != len(e2eTopics)+1 || out.Dimensions != 64 {
		t.Errorf("status = %+v", out)
	}
}
