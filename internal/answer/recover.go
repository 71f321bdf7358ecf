package answer

import (
	"encoding/json"
	"strings"

	"github.com/hyperjump/askta/internal/models"
)

type modelReply struct {
	Answer string
	Links  []models.Link
}

// Recover turns raw model output into a result. A JSON object with a string "answer" supplies the
// answer; its links are used only when derived is empty. Anything else becomes the answer verbatim
// with the derived links.
func Recover(raw string, derived []models.Link) *models.QueryResult {
	reply, ok := parseReply(raw)
	if !ok {
		return models.NewQueryResult(raw, derived)
	}
	if len(derived) > 0 {
		return models.NewQueryResult(reply.Answer, derived)
	}
	links := make([]models.Link, 0, len(reply.Links))
	for _, l := range reply.Links {
		if strings.TrimSpace(l.URL) == "" {
			continue
		}
		links = append(links, l)
	}
	return models.NewQueryResult(reply.Answer, links)
}

func parseReply(raw string) (modelReply, bool) {
	body := stripCodeFence(strings.TrimSpace(raw))
	if !strings.HasPrefix(body, "{") {
		return modelReply{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return modelReply{}, false
	}
	rawAnswer, ok := fields["answer"]
	if !ok || string(rawAnswer) == "null" {
		return modelReply{}, false
	}
	var reply modelReply
	if err := json.Unmarshal(rawAnswer, &reply.Answer); err != nil {
		return modelReply{}, false
	}
	// Malformed links are dropped; the answer still stands.
	if rawLinks, ok := fields["links"]; ok {
		if err := json.Unmarshal(rawLinks, &reply.Links); err != nil {
			reply.Links = nil
		}
	}
	return reply, true
}

// stripCodeFence unwraps ```json ... ``` blocks that chat models often emit around JSON.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := s[3 : len(s)-3]
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		lang := strings.TrimSpace(inner[:nl])
		if lang == "" || lang == "json" || lang == "JSON" {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
