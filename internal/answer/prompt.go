package answer

import (
	"strings"

	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/pkg/utils"
)

const responseInstruction = `Return a JSON object:
{"answer": "Your answer", "links": [{"url": "link", "text": "description"}]}`

// BuildPrompt assembles the grounding prompt. Match texts are joined in rank order and the
// joined context is cut once at budget characters.
func BuildPrompt(persona, question, media string, matches []models.RankedMatch, budget int) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Item.Text
	}
	context := utils.Prefix(strings.Join(texts, " "), budget)

	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nImage Info: ")
	b.WriteString(media)
	b.WriteString("\nContext: ")
	b.WriteString(context)
	b.WriteString("\n")
	b.WriteString(responseInstruction)
	return b.String()
}
