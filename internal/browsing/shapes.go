package browsing

import (
	"encoding/json"
	"strings"

	"lifeops/internal/models"
)

// The provider's result field is not stable: it may be a JSON array of
// link objects, a string with such an array embedded in surrounding
// prose, or absent. Each shape is a pure matcher tried in priority
// order; the first match wins.

type shapeMatcher func(result json.RawMessage) ([]models.Link, bool)

var linkShapes = []shapeMatcher{
	matchLinkArray,
	matchEmbeddedLinkArray,
}

// decodeLinks extracts links from a raw provider response body.
func decodeLinks(body []byte) ([]models.Link, bool) {
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Result) == 0 {
		return nil, false
	}

	for _, match := range linkShapes {
		if links, ok := match(envelope.Result); ok {
			return links, true
		}
	}
	return nil, false
}

// matchLinkArray handles a result that is already a JSON array of
// {title, url} objects.
func matchLinkArray(result json.RawMessage) ([]models.Link, bool) {
	var links []models.Link
	if err := json.Unmarshal(result, &links); err != nil {
		return nil, false
	}
	return validLinks(links)
}

// matchEmbeddedLinkArray handles a result that is a string with a JSON
// array embedded in it, e.g. prose around a code block. The first
// balanced [...] substring is extracted and parsed.
func matchEmbeddedLinkArray(result json.RawMessage) ([]models.Link, bool) {
	var text string
	if err := json.Unmarshal(result, &text); err != nil {
		return nil, false
	}

	arr, ok := balancedArray(text)
	if !ok {
		return nil, false
	}

	var links []models.Link
	if err := json.Unmarshal([]byte(arr), &links); err != nil {
		return nil, false
	}
	return validLinks(links)
}

// validLinks drops entries without a URL and rejects empty results.
func validLinks(links []models.Link) ([]models.Link, bool) {
	kept := links[:0]
	for _, l := range links {
		if strings.TrimSpace(l.URL) != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return nil, false
	}
	return kept, true
}

// balancedArray returns the first balanced [...] substring of s,
// ignoring brackets inside JSON string literals.
func balancedArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
