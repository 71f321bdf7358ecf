package embedding

import (
	"testing"
)

func TestSimpleTokenizer_Tokenize(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, attn, types := tok.Tokenize("hello world", 10)
	if len(ids) != 10 || len(attn) != 10 || len(types) != 10 {
		t.Fatalf("lengths: ids=%d attn=%d types=%d", len(ids), len(attn), len(types))
	}
	if ids[0] != tokenCLS {
		t.Errorf("expected CLS %d, got %d", tokenCLS, ids[0])
	}
	if ids[3] != tokenSEP {
		t.Errorf("expected SEP at 3, got %d", ids[3])
	}
	for i, want := range []int64{1, 1, 1, 1, 0, 0} {
		if attn[i] != want {
			t.Errorf("attention[%d] = %d, want %d", i, attn[i], want)
		}
	}
}

func TestSimpleTokenizer_caseInsensitive(t *testing.T) {
	tok := &SimpleTokenizer{}
	a, _, _ := tok.Tokenize("Docker Compose", 8)
	b, _, _ := tok.Tokenize("docker compose", 8)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("token %d differs: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestSimpleTokenizer_truncatesLongInput(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, attn, _ := tok.Tokenize("a b c d e f g h i j k l", 5)
	if ids[4] != tokenSEP || attn[4] != 1 {
		t.Errorf("last position should be SEP, got ids=%v", ids)
	}
}

func TestSplitWords(t *testing.T) {
	words := SplitWords("  a  b, c.  ")
	if len(words) != 3 {
		t.Errorf("expected 3 words, got %v", words)
	}
	if len(SplitWords("")) != 0 {
		t.Error("empty string should have no words")
	}
}

func TestHashString(t *testing.T) {
	h := HashString("abc")
	if h <= 0 {
		t.Error("hash should be positive")
	}
	if HashString("abc") != HashString("abc") {
		t.Error("hash should be deterministic")
	}
	if HashString("abc") == HashString("abd") {
		t.Error("different strings should hash differently")
	}
}
