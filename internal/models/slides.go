package models

import "encoding/json"

// Slide is one image + text presentation unit.
type Slide struct {
	ImageURL     string `json:"image_url"`
	StorySegment string `json:"story_segment"`
}

// SlideSequence is an ordered, immutable list of slides.
type SlideSequence []Slide

// Len returns the number of slides.
func (s SlideSequence) Len() int { return len(s) }

// Clone returns an independent copy.
func (s SlideSequence) Clone() SlideSequence {
	if s == nil {
		return nil
	}
	out := make(SlideSequence, len(s))
	copy(out, s)
	return out
}

// StoryPayload is the backend's upload response body.
//
// Slides is a pointer so that an explicit empty list can be told apart from an absent one.
type StoryPayload struct {
	Success bool            `json:"success"`
	StoryID string          `json:"story_id,omitempty"`
	Slides  *SlideSequence  `json:"slides,omitempty"`
	Images  json.RawMessage `json:"images,omitempty"`
	Error   string          `json:"error,omitempty"`
}
