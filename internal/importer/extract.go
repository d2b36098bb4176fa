package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"wordcore/internal/services"
)

// Source types recorded on import batches.
const (
	SourceText = "TEXT"
	SourceCSV  = "CSV"
	SourceHTML = "HTML"
)

var articleBaseURL = &url.URL{Scheme: "file", Path: "/"}

// SourceTypeForFile maps a filename to its batch source type, or "" when the
// extension is not supported.
func SourceTypeForFile(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".log":
		return SourceText
	case ".csv":
		return SourceCSV
	case ".html", ".htm":
		return SourceHTML
	default:
		return ""
	}
}

// ExtractText returns the textual content of an uploaded file. Images and
// other binary formats are rejected; OCR runs outside this process.
func ExtractText(filename string, payload []byte) (string, error) {
	switch SourceTypeForFile(filename) {
	case SourceText:
		return strings.ToValidUTF8(string(payload), ""), nil
	case SourceCSV:
		return extractCSV(payload)
	case SourceHTML:
		return extractHTML(payload)
	default:
		return "", services.Validation("importer", "extract text",
			fmt.Sprintf("unsupported file type %q", filepath.Ext(filename)))
	}
}

func extractCSV(payload []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.ToValidUTF8(payload, nil)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var values []string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", services.Wrap(services.ErrValidation, "importer", "extract csv", "malformed csv", err)
		}
		for _, cell := range row {
			if cell = strings.TrimSpace(cell); cell != "" {
				values = append(values, cell)
			}
		}
	}
	return strings.Join(values, "\n"), nil
}

func extractHTML(payload []byte) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(payload), articleBaseURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.TextContent, nil
	}
	return htmlText(payload)
}

// htmlText collects the text nodes of a document outside script and style
// elements, one block per line.
func htmlText(payload []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(payload))
	var (
		b    strings.Builder
		skip int
	)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", services.Wrap(services.ErrValidation, "importer", "extract html", "malformed html", err)
			}
			return b.String(), nil
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				skip++
			case "p", "div", "li", "tr", "br", "h1", "h2", "h3", "h4", "td", "dt", "dd":
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				if skip > 0 {
					skip--
				}
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}
