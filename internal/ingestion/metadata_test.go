package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_JSONMarshaling(t *testing.T) {
	metadata := &Metadata{
		Source:    "resume.pdf",
		Format:    FormatPDF,
		Timestamp: "2024-01-01T00:00:00Z",
		Hash:      "abcd1234",
		Words:     42,
	}

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)

	var unmarshaled Metadata
	require.NoError(t, json.Unmarshal(jsonBytes, &unmarshaled))
	assert.Equal(t, *metadata, unmarshaled)
}

func TestContentHash(t *testing.T) {
	hash1 := ContentHash("test content")
	hash2 := ContentHash("different content")

	// Hash should be 64 hex characters (SHA256)
	assert.Len(t, hash1, 64)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, ContentHash("test content"))

	// Part boundaries matter
	assert.NotEqual(t, ContentHash("ab", "c"), ContentHash("a", "bc"))
}

func TestNewMetadata(t *testing.T) {
	text := NewResumeText("Jordan Lee\nGo developer")
	metadata := NewMetadata(text, "inline", FormatText)

	assert.Equal(t, "inline", metadata.Source)
	assert.Equal(t, FormatText, metadata.Format)
	assert.Equal(t, ContentHash(text.Normalized()), metadata.Hash)
	assert.Equal(t, 4, metadata.Words)
	assert.Equal(t, 23, metadata.Chars)

	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)
}

func TestNewMetadata_SameTextSameHash(t *testing.T) {
	// Whitespace differences normalize away
	m1 := NewMetadata(NewResumeText("Jordan Lee\r\nGo"), "a", FormatText)
	m2 := NewMetadata(NewResumeText("Jordan   Lee\nGo  "), "b", FormatText)
	assert.Equal(t, m1.Hash, m2.Hash)
}
