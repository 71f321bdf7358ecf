package corpus

import (
	"strings"

	"github.com/hyperjump/askta/pkg/utils"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Pre: true, atom.Blockquote: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Hr: true, atom.Aside: true, atom.Table: true,
}

// PlainText renders forum post HTML as a single line of plain text.
// Entities are decoded and script/style content is dropped.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return utils.CollapseSpace(s)
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return utils.CollapseSpace(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			a := tagAtom(z)
			if a == atom.Script || a == atom.Style {
				skip++
			} else if blockTags[a] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			a := tagAtom(z)
			if a == atom.Script || a == atom.Style {
				if skip > 0 {
					skip--
				}
			} else if blockTags[a] {
				b.WriteByte(' ')
			}
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func tagAtom(z *html.Tokenizer) atom.Atom {
	name, _ := z.TagName()
	return atom.Lookup(name)
}
