package transcribe

import (
	"encoding/json"
	"strings"
)

// The provider's transcript location is not stable: it may live in a
// top-level text field, be split across per-utterance fragments, or sit
// under a generic results field. Each shape is a pure matcher tried in
// priority order; the first non-empty transcript wins.

type shapeMatcher func(body []byte) (string, bool)

var transcriptShapes = []shapeMatcher{
	matchTopLevelText,
	matchUtterances,
	matchResultsField,
}

// decodeTranscript extracts the transcript from a raw provider
// response body.
func decodeTranscript(body []byte) (string, bool) {
	for _, match := range transcriptShapes {
		if text, ok := match(body); ok {
			return text, true
		}
	}
	return "", false
}

func matchTopLevelText(body []byte) (string, bool) {
	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	return nonEmpty(resp.Text)
}

func matchUtterances(body []byte) (string, bool) {
	var resp struct {
		Utterances []struct {
			Text string `json:"text"`
		} `json:"utterances"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}

	var parts []string
	for _, u := range resp.Utterances {
		if s := strings.TrimSpace(u.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return nonEmpty(strings.Join(parts, " "))
}

func matchResultsField(body []byte) (string, bool) {
	var resp struct {
		Results string `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	return nonEmpty(resp.Results)
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
