package models

import (
	"fmt"
	"strconv"

	"github.com/desertthunder/photoyarn/internal/shared"
)

// UploadState is the lifecycle of the single upload owned by the session controller.
type UploadState int

const (
	Idle UploadState = iota
	Submitting
	Succeeded
	Failed
)

func (s UploadState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Submitting:
		return "Submitting"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("UploadState(%d)", int(s))
	}
}

// OptionField identifies one optional scalar sent alongside the files.
type OptionField int

const (
	FieldStoryPrompt OptionField = iota
	FieldMaxWords
	FieldMaxBeats
	FieldAPIKey
)

// OptionValue is one present option, already encoded as text.
type OptionValue struct {
	Field OptionField
	Value string
}

// UploadOptions holds the optional fields of a submission.
//
// Zero values mean absent; absent fields are never sent.
type UploadOptions struct {
	StoryPrompt string
	MaxWords    int
	MaxBeats    int
	APIKey      string
}

// Validate rejects counts that can never be positive.
func (o UploadOptions) Validate() error {
	if o.MaxWords < 0 {
		return fmt.Errorf("%w: max words must be positive, got %d", shared.ErrInvalidOption, o.MaxWords)
	}
	if o.MaxBeats < 0 {
		return fmt.Errorf("%w: max beats must be positive, got %d", shared.ErrInvalidOption, o.MaxBeats)
	}
	return nil
}

// Fields returns the present options in a fixed order: prompt, words, beats, key.
func (o UploadOptions) Fields() []OptionValue {
	var fields []OptionValue
	if o.StoryPrompt != "" {
		fields = append(fields, OptionValue{FieldStoryPrompt, o.StoryPrompt})
	}
	if o.MaxWords > 0 {
		fields = append(fields, OptionValue{FieldMaxWords, strconv.Itoa(o.MaxWords)})
	}
	if o.MaxBeats > 0 {
		fields = append(fields, OptionValue{FieldMaxBeats, strconv.Itoa(o.MaxBeats)})
	}
	if o.APIKey != "" {
		fields = append(fields, OptionValue{FieldAPIKey, o.APIKey})
	}
	return fields
}

// OutcomeKind tags the variant held by an [Outcome].
type OutcomeKind int

const (
	OutcomeStory  OutcomeKind = iota // success carrying a story identifier
	OutcomeSlides                    // success carrying an inline slide sequence
	OutcomeFailure                   // backend explicitly signalled an error
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeStory:
		return "story"
	case OutcomeSlides:
		return "slides"
	case OutcomeFailure:
		return "failure"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the tagged result of a well-formed upload response:
// Success(identifier) | Success(slides) | Failure(message).
type Outcome struct {
	Kind    OutcomeKind
	StoryID string        // set for OutcomeStory
	Slides  SlideSequence // set for OutcomeSlides
	Payload []byte        // raw response body for OutcomeSlides, persisted verbatim
	Message string        // set for OutcomeFailure
}

// StoryOutcome builds the identifier variant.
func StoryOutcome(id string) *Outcome { return &Outcome{Kind: OutcomeStory, StoryID: id} }

// SlidesOutcome builds the inline slides variant.
func SlidesOutcome(slides SlideSequence, payload []byte) *Outcome {
	return &Outcome{Kind: OutcomeSlides, Slides: slides, Payload: payload}
}

// FailureOutcome builds the backend rejection variant.
func FailureOutcome(message string) *Outcome { return &Outcome{Kind: OutcomeFailure, Message: message} }
