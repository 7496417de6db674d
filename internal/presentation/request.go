// Package presentation holds the request shape shared by the Mini App
// client and the backend that builds decks.
package presentation

import (
	"fmt"
	"slices"
	"strings"
)

type Style string

const (
	StyleAcademic Style = "academic"
	StyleCreative Style = "creative"
	StyleMinimal  Style = "minimal"
)

const (
	DefaultSlides = 10
	DefaultStyle  = StyleAcademic
)

var (
	SlideCounts = []int{10, 15, 20}
	Styles      = []Style{StyleAcademic, StyleCreative, StyleMinimal}
)

// Request is the JSON body of POST /api/presentation.
type Request struct {
	Topic        string `json:"topic"`
	Slides       int    `json:"slides_count"`
	Style        Style  `json:"style"`
	Requirements string `json:"requirements"`
}

// Response is the success body of POST /api/presentation. Presentation is
// the link to the generated deck.
type Response struct {
	Presentation string `json:"presentation"`
	RequestID    string `json:"request_id,omitempty"`
	Title        string `json:"title,omitempty"`
}

// NewRequest builds a request from raw form values, filling the form's
// initial values for zero slides or an empty style.
func NewRequest(topic string, slides int, style Style, requirements string) Request {
	if slides == 0 {
		slides = DefaultSlides
	}
	if style == "" {
		style = DefaultStyle
	}
	return Request{
		Topic:        topic,
		Slides:       slides,
		Style:        style,
		Requirements: requirements,
	}
}

// HasTopic reports whether the topic is non-empty after trimming.
func (r Request) HasTopic() bool {
	return strings.TrimSpace(r.Topic) != ""
}

func (r Request) Validate() error {
	if !r.HasTopic() {
		return fmt.Errorf("topic is required")
	}
	if !slices.Contains(SlideCounts, r.Slides) {
		return fmt.Errorf("slides_count must be one of %v, got %d", SlideCounts, r.Slides)
	}
	if !r.Style.Valid() {
		return fmt.Errorf("style must be one of %v, got %q", Styles, r.Style)
	}
	return nil
}

func (s Style) Valid() bool {
	return slices.Contains(Styles, s)
}

// Label is the human readable name shown in the form.
func (s Style) Label() string {
	switch s {
	case StyleAcademic:
		return "Academic"
	case StyleCreative:
		return "Creative"
	case StyleMinimal:
		return "Minimalism"
	default:
		return string(s)
	}
}
