package legal

import (
	"embed"
	"strings"
)

//go:embed docs/*.txt
var docsFS embed.FS

// corpusFiles maps regulation source tags to their embedded documents.
var corpusFiles = map[string]string{
	"GDPR":  "docs/gdpr_requirements.txt",
	"COPPA": "docs/coppa_requirements.txt",
	"CCPA":  "docs/ccpa_requirements.txt",
}

// Sources lists the regulation tags available in the embedded corpus.
func Sources() []string {
	return []string{"GDPR", "COPPA", "CCPA"}
}

// section is one titled portion of a regulation document.
type section struct {
	Title string
	Body  string
}

// splitSections breaks a corpus document on its "=====" headings so each
// chunk can carry the section it came from.
func splitSections(content string) []section {
	parts := strings.Split(content, "\n=====")

	sections := make([]section, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if i == 0 {
			// Preamble before the first heading.
			sections = append(sections, section{Title: "Overview", Body: part})
			continue
		}

		title := part
		body := ""
		if idx := strings.IndexByte(part, '\n'); idx >= 0 {
			title = strings.TrimSpace(part[:idx])
			body = strings.TrimSpace(part[idx+1:])
		}
		if body == "" {
			continue
		}
		sections = append(sections, section{Title: title, Body: body})
	}

	return sections
}

func loadCorpus(source string) (string, error) {
	path, ok := corpusFiles[source]
	if !ok {
		return "", errUnknownSource(source)
	}
	data, err := docsFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type errUnknownSource string

func (e errUnknownSource) Error() string {
	return "unknown legal corpus source: " + string(e)
}
