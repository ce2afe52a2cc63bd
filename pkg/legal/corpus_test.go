package legal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCorpusKnownSources(t *testing.T) {
	for _, source := range Sources() {
		content, err := loadCorpus(source)
		require.NoError(t, err, source)
		assert.NotEmpty(t, content, source)
	}
}

func TestLoadCorpusUnknownSource(t *testing.T) {
	_, err := loadCorpus("HIPAA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HIPAA")
}

func TestSplitSectionsCarriesTitles(t *testing.T) {
	content, err := loadCorpus("GDPR")
	require.NoError(t, err)

	sections := splitSections(content)
	require.Greater(t, len(sections), 5)

	assert.Equal(t, "Overview", sections[0].Title)

	var titles []string
	for _, sec := range sections {
		assert.NotEmpty(t, sec.Body, sec.Title)
		assert.False(t, strings.HasPrefix(sec.Body, "====="), sec.Title)
		titles = append(titles, sec.Title)
	}
	assert.Contains(t, titles, "DATA SUBJECT RIGHTS (ARTICLES 15-22)")
	assert.Contains(t, titles, "DATA BREACH NOTIFICATION (ARTICLES 33-34)")
}

func TestSplitSectionsSyntheticDocument(t *testing.T) {
	doc := "PREAMBLE TEXT\n\n\n===== FIRST PART\n\nbody one\n\n\n===== SECOND PART\n\nbody two"
	sections := splitSections(doc)
	require.Len(t, sections, 3)

	assert.Equal(t, "PREAMBLE TEXT", sections[0].Body)
	assert.Equal(t, "FIRST PART", sections[1].Title)
	assert.Equal(t, "body one", sections[1].Body)
	assert.Equal(t, "SECOND PART", sections[2].Title)
	assert.Equal(t, "body two", sections[2].Body)
}
