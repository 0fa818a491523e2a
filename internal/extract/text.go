// Package extract implements the model-free text analysis paths: visible
// text extraction from scraped pages, sentence splitting, frequency-based
// extractive summarization, and topic extraction. The summarizer falls
// back to this package when the model backend is unavailable; topic
// extraction always runs here because it needs no model.
package extract

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// VisibleText extracts readable text from an HTML document, skipping
// script, style, and other non-content elements.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "footer", "aside":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}

// SplitSentences splits text into sentences. Terminators inside common
// abbreviations and decimals are not treated as boundaries.
func SplitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}

		// A decimal point ("7.5%") is not a boundary.
		if runes[i] == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
			continue
		}

		// Sentence ends when followed by whitespace and an uppercase
		// start, or at end of text.
		if i+1 >= len(runes) || (unicode.IsSpace(runes[i+1]) && nextIsUpper(runes, i+1)) {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func nextIsUpper(runes []rune, from int) bool {
	for i := from; i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			continue
		}
		return unicode.IsUpper(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '"' || runes[i] == '\''
	}
	return true
}

// Tokenize lowercases text and splits it into word tokens, dropping
// punctuation.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, strings.Trim(current.String(), "'"))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, strings.Trim(current.String(), "'"))
	}

	return tokens
}
