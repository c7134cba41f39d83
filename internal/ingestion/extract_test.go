package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		expected Format
		wantErr  bool
	}{
		{name: "Text extension", file: "cv.txt", expected: FormatText},
		{name: "Markdown extension", file: "cv.MD", expected: FormatMarkdown},
		{name: "PDF extension", file: "cv.pdf", expected: FormatPDF},
		{name: "DOCX extension", file: "cv.docx", expected: FormatDOCX},
		{name: "HTML extension", file: "cv.htm", expected: FormatHTML},
		{name: "Sniff plain text", file: "cv", data: []byte("Jordan Lee\nEngineer"), expected: FormatText},
		{name: "Sniff HTML", file: "upload", data: []byte("<!DOCTYPE html><html><body>x</body></html>"), expected: FormatHTML},
		{name: "Sniff PDF", file: "upload.bin", data: []byte("%PDF-1.7\n..."), expected: FormatPDF},
		{name: "Unknown binary", file: "image.png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := DetectFormat(tt.file, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestExtractBytes_HTML(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><style>body { color: red; }</style></head>
<body>
<nav>Navigation</nav>
<h1>Jordan Lee</h1>
<h2>Experience</h2>
<ul><li>Led a team of 8</li><li>Cut costs by 20%</li></ul>
<script>var x = 1;</script>
<footer>Footer</footer>
</body>
</html>`

	text, metadata, err := ExtractBytes("resume.html", []byte(page))
	require.NoError(t, err)

	assert.Equal(t, FormatHTML, metadata.Format)
	assert.Contains(t, text.Lines(), "Jordan Lee")
	assert.Contains(t, text.Lines(), "Experience")
	assert.Contains(t, text.Normalized(), "Led a team of 8")
	assert.NotContains(t, text.Normalized(), "Navigation")
	assert.NotContains(t, text.Normalized(), "Footer")
	assert.NotContains(t, text.Normalized(), "var x")
}

func TestExtractBytes_CorruptPDF(t *testing.T) {
	_, metadata, err := ExtractBytes("resume.pdf", []byte("not really a pdf"))
	require.Error(t, err)
	assert.Nil(t, metadata)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, FormatPDF, extractionErr.Format)
	assert.Contains(t, err.Error(), "failed to extract text")
}

func TestExtractBytes_CorruptDOCX(t *testing.T) {
	_, _, err := ExtractBytes("resume.docx", []byte("PK not a zip"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docx")
}

func TestExtractFile_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jordan Lee\r\nGo developer"), 0644))

	text, metadata, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jordan Lee\nGo developer", text.Normalized())
	assert.Equal(t, "resume.txt", metadata.Source)
	assert.Len(t, metadata.Hash, 64)
}

func TestExtractFile_NotFound(t *testing.T) {
	_, metadata, err := ExtractFile("/nonexistent/resume.txt")
	require.Error(t, err)
	assert.Nil(t, metadata)
	assert.Contains(t, err.Error(), "file not found")
}

func TestExtractBytes_TooLarge(t *testing.T) {
	_, _, err := ExtractBytes("big.txt", make([]byte, MaxDocumentSize+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
