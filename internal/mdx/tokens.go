package mdx

import (
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// CountTokens approximates a token count: about 1.3 tokens per word plus
// one token for every two punctuation runes.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	punct := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punct++
		}
	}
	return int(float64(words)*1.3) + punct/2
}

// NewTokenCounter returns a tiktoken counter for model. When no encoding
// can be loaded (unknown model, offline cache miss) it falls back to
// CountTokens.
func NewTokenCounter(model string) func(string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	}
	if err != nil {
		return CountTokens
	}
	return func(s string) int {
		return len(enc.Encode(s, nil, nil))
	}
}

// Truncate keeps the leading paragraphs of text that fit in maxTokens
// according to count. A non-positive budget disables truncation.
func Truncate(text string, maxTokens int, count func(string) int) (string, bool) {
	if count == nil {
		count = CountTokens
	}
	if maxTokens <= 0 || count(text) <= maxTokens {
		return text, false
	}
	chunks := SplitByTokens(text, maxTokens, count)
	if len(chunks) == 0 {
		return "", true
	}
	return chunks[0], true
}

// SplitByTokens splits text into chunks of roughly maxTokens each,
// breaking on paragraphs first and on sentences for oversized paragraphs.
func SplitByTokens(text string, maxTokens int, count func(string) int) []string {
	if count == nil {
		count = CountTokens
	}
	if maxTokens <= 0 || count(text) <= maxTokens {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curTokens := 0
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(cur.String()))
			cur.Reset()
			curTokens = 0
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		paraTokens := count(para)
		if curTokens+paraTokens > maxTokens {
			flush()
		}
		if paraTokens <= maxTokens {
			if cur.Len() > 0 {
				cur.WriteString("\n\n")
			}
			cur.WriteString(para)
			curTokens += paraTokens
			continue
		}
		for _, sent := range splitSentences(para) {
			st := count(sent)
			if curTokens+st > maxTokens {
				flush()
			}
			if cur.Len() > 0 {
				cur.WriteString(" ")
			}
			cur.WriteString(sent)
			curTokens += st
		}
	}
	flush()
	return chunks
}

func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range text {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}
