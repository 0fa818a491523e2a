package extract

import (
	"strings"
	"testing"
)

const earningsText = "Acme Corp reported record profit for the third quarter. " +
	"Revenue grew fifteen percent year over year, driven by strong demand. " +
	"The weather in Mumbai was pleasant on the day of the announcement. " +
	"Analysts raised their price targets after the profit announcement. " +
	"The company expects profit growth to continue next quarter."

func TestSummarize_PicksHighFrequencySentences(t *testing.T) {
	summary := Summarize(earningsText, 2, 0)

	if summary == "" {
		t.Fatal("Expected non-empty summary")
	}
	if !strings.Contains(summary, "profit") {
		t.Errorf("Expected summary to keep profit-related sentences, got: %s", summary)
	}
	if strings.Contains(summary, "weather") {
		t.Errorf("Expected off-topic sentence to be dropped, got: %s", summary)
	}

	if got := len(SplitSentences(summary)); got > 2 {
		t.Errorf("Expected at most 2 sentences, got %d", got)
	}
}

func TestSummarize_ShortTextVerbatim(t *testing.T) {
	short := "Acme Corp launches a new product."
	if got := Summarize(short, 3, 600); got != short {
		t.Errorf("Expected short text verbatim, got: %s", got)
	}
}

func TestSummarize_PreservesOriginalOrder(t *testing.T) {
	summary := Summarize(earningsText, 3, 0)

	first := strings.Index(summary, "record profit")
	second := strings.Index(summary, "raised their price targets")
	if first >= 0 && second >= 0 && first > second {
		t.Errorf("Expected sentences in original order, got: %s", summary)
	}
}

func TestSummarize_EmptyInput(t *testing.T) {
	if got := Summarize("   ", 3, 600); got != "" {
		t.Errorf("Expected empty summary for blank input, got %q", got)
	}
}

func TestClip_SentenceBoundary(t *testing.T) {
	text := "First sentence here. Second sentence is much longer than the cap allows."
	got := Clip(text, 30)
	if got != "First sentence here." {
		t.Errorf("Expected clip at sentence boundary, got %q", got)
	}
}

func TestClip_WordBoundaryFallback(t *testing.T) {
	text := "no terminator in this stretch of words at all"
	got := Clip(text, 20)
	if len(got) > 20 {
		t.Errorf("Expected at most 20 chars, got %d: %q", len(got), got)
	}
	if strings.HasSuffix(got, " ") {
		t.Errorf("Expected trimmed clip, got %q", got)
	}
}

func TestSplitSentences_DecimalsNotBoundaries(t *testing.T) {
	sentences := SplitSentences("Shares rose 7.5% on Monday. Analysts were surprised.")
	if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
	if !strings.Contains(sentences[0], "7.5%") {
		t.Errorf("Expected decimal kept intact, got %q", sentences[0])
	}
}

func TestVisibleText_SkipsScripts(t *testing.T) {
	html := `<html><head><script>var x = "hidden text";</script></head>
	<body><p>Visible paragraph.</p><nav>Menu items</nav></body></html>`

	text, err := VisibleText(html)
	if err != nil {
		t.Fatalf("VisibleText: %v", err)
	}
	if !strings.Contains(text, "Visible paragraph.") {
		t.Errorf("Expected body text, got %q", text)
	}
	if strings.Contains(text, "hidden") || strings.Contains(text, "Menu") {
		t.Errorf("Expected script/nav content skipped, got %q", text)
	}
}
