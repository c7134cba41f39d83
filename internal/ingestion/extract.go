package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format identifies a source document type.
type Format string

// Supported document formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatHTML     Format = "html"
)

// MaxDocumentSize bounds how many bytes ExtractFile and ExtractBytes will read.
const MaxDocumentSize = 10 << 20

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]*>`)
)

// DetectFormat picks a format from the file extension, falling back to content sniffing.
func DetectFormat(name string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}
	return sniffFormat(data)
}

func sniffFormat(data []byte) (Format, error) {
	mime := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(mime, "application/pdf"):
		return FormatPDF, nil
	case strings.HasPrefix(mime, "text/html"):
		return FormatHTML, nil
	case strings.HasPrefix(mime, "text/plain"):
		return FormatText, nil
	case strings.HasPrefix(mime, "application/zip") && bytes.Contains(data, []byte("word/document.xml")):
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
}

// ExtractFile reads a document from disk and returns its text with metadata.
func ExtractFile(path string) (ResumeText, *Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ResumeText{}, nil, &ExtractionError{Source: path, Message: "file not found", Cause: err}
		}
		return ResumeText{}, nil, &ExtractionError{Source: path, Message: "failed to stat file", Cause: err}
	}
	if info.Size() > MaxDocumentSize {
		return ResumeText{}, nil, &ExtractionError{Source: path, Message: fmt.Sprintf("file exceeds %d bytes", MaxDocumentSize)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ResumeText{}, nil, &ExtractionError{Source: path, Message: "failed to read file", Cause: err}
	}
	return ExtractBytes(filepath.Base(path), data)
}

// ExtractBytes converts an in-memory document to text. The name is used for format
// detection and reporting only.
func ExtractBytes(name string, data []byte) (ResumeText, *Metadata, error) {
	if len(data) > MaxDocumentSize {
		return ResumeText{}, nil, &ExtractionError{Source: name, Message: fmt.Sprintf("document exceeds %d bytes", MaxDocumentSize)}
	}

	format, err := DetectFormat(name, data)
	if err != nil {
		return ResumeText{}, nil, &ExtractionError{Source: name, Message: "cannot determine format", Cause: err}
	}

	var raw string
	switch format {
	case FormatText, FormatMarkdown:
		raw = string(data)
	case FormatPDF:
		raw, err = extractPDFText(data)
	case FormatDOCX:
		raw, err = extractDocxText(data)
	case FormatHTML:
		raw, err = extractHTMLText(data)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return ResumeText{}, nil, &ExtractionError{Source: name, Format: format, Message: "failed to extract text", Cause: err}
	}

	text := NewResumeText(raw)
	return text, NewMetadata(text, name, format), nil
}

func extractPDFText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			// Row grouping fails on some encodings; plain text is still usable.
			plain, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				return "", fmt.Errorf("failed to read page %d: %w", i, plainErr)
			}
			sb.WriteString(plain)
			sb.WriteString("\n")
			continue
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			sb.WriteString(strings.Join(words, " "))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

// extractHTMLText keeps block boundaries as newlines so section headers survive.
func extractHTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr, section, header, article").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}
