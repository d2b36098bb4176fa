package importer

import (
	"errors"
	"strings"
	"testing"

	"wordcore/internal/services"
)

func TestSourceTypeForFile(t *testing.T) {
	cases := map[string]string{
		"list.TXT":   SourceText,
		"notes.md":   SourceText,
		"words.csv":  SourceCSV,
		"page.htm":   SourceHTML,
		"page.html":  SourceHTML,
		"scan.png":   "",
		"no-extension": "",
	}
	for name, want := range cases {
		if got := SourceTypeForFile(name); got != want {
			t.Errorf("SourceTypeForFile(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestExtractTextCSV(t *testing.T) {
	text, err := ExtractText("words.csv", []byte("museum, a place\n\"library\",,\nzebra\n"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "museum\na place\nlibrary\nzebra" {
		t.Fatalf("unexpected csv text %q", text)
	}
}

func TestExtractTextHTMLSkipsScripts(t *testing.T) {
	page := `<html><head><title>List</title><style>p{color:red}</style></head>
<body><script>var secret = "hidden";</script><article><p>The museum keeps a tall giraffe next to the whale, and every visitor stops to read the long card about how the giraffe arrived by ship.</p></article></body></html>`
	text, err := ExtractText("page.html", []byte(page))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "museum") || !strings.Contains(text, "giraffe") {
		t.Fatalf("expected list words in %q", text)
	}
	if strings.Contains(text, "hidden") || strings.Contains(text, "color:red") {
		t.Fatalf("script or style leaked into %q", text)
	}
}

func TestHTMLTextFallback(t *testing.T) {
	text, err := htmlText([]byte(`<div>alpha</div><noscript>beta</noscript><p>gamma</p>`))
	if err != nil {
		t.Fatalf("htmlText: %v", err)
	}
	if got := strings.Fields(text); len(got) != 2 || got[0] != "alpha" || got[1] != "gamma" {
		t.Fatalf("unexpected fallback text %q", text)
	}
}

func TestExtractTextRejectsImages(t *testing.T) {
	_, err := ExtractText("scan.png", []byte{0x89, 'P', 'N', 'G'})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
