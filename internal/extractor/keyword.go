package extractor

import (
	"context"
	"regexp"
	"strings"

	"lifeops/internal/models"
)

// usStates covers the location signals the demo scenarios exercise.
var usStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
	"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
	"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana",
	"Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota",
	"Mississippi", "Missouri", "Montana", "Nebraska", "Nevada",
	"New Hampshire", "New Jersey", "New Mexico", "New York",
	"North Carolina", "North Dakota", "Ohio", "Oklahoma", "Oregon",
	"Pennsylvania", "Rhode Island", "South Carolina", "South Dakota",
	"Tennessee", "Texas", "Utah", "Vermont", "Virginia", "Washington",
	"West Virginia", "Wisconsin", "Wyoming",
}

var arrivalPattern = regexp.MustCompile(`(?i)\b([\w-]+)\s+(days?|weeks?|months?|years?)\s+ago\b`)

var employmentSignals = []string{
	"new job",
	"started working",
	"got a job",
	"recently employed",
}

// KeywordExtractor is a deterministic, dependency-free Extractor used
// as the default wiring. It recognizes the relocation signals the
// original demo scenario exercises: an arrival time phrase, employment
// phrasing, and a US state name.
type KeywordExtractor struct{}

// NewKeywordExtractor creates a KeywordExtractor.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// Extract scans the text for known signals. Output order is fixed
// (Arrival, Employment, Location) so repeated runs are identical.
func (e *KeywordExtractor) Extract(ctx context.Context, rawText string) ([]models.Fact, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, nil
	}
	lower := strings.ToLower(text)

	var facts []models.Fact

	if m := arrivalPattern.FindString(text); m != "" {
		facts = append(facts, models.Fact{Entity: "Arrival", Value: strings.ToLower(m)})
	}

	for _, signal := range employmentSignals {
		if strings.Contains(lower, signal) {
			facts = append(facts, models.Fact{Entity: "Employment", Value: "Recently Employed"})
			break
		}
	}

	// Longest match wins so "West Virginia" is not read as "Virginia".
	var location string
	for _, state := range usStates {
		if strings.Contains(lower, strings.ToLower(state)) && len(state) > len(location) {
			location = state
		}
	}
	if location != "" {
		facts = append(facts, models.Fact{Entity: "Location", Value: location})
	}

	return facts, nil
}
