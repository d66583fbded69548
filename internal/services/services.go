// package services defines the [Uploader] interface for submitting files to the story backend
package services

import (
	"context"

	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/shared"
)

// Uploader sends one multipart submission and decodes the backend's reply.
//
// A nil error always comes with a non-nil [models.Outcome]. Errors wrap [shared.ErrTransportFailure] or [shared.ErrMalformedPayload].
type Uploader interface {
	Upload(ctx context.Context, files models.FileSet, opts models.UploadOptions) (*models.Outcome, error)
}

// FieldNames names each multipart field for one deployment.
type FieldNames struct {
	Files       string
	StoryPrompt string
	MaxWords    string
	MaxBeats    string
	APIKey      string
}

// DefaultFieldNames returns the field names the reference backend reads.
func DefaultFieldNames() FieldNames {
	return FieldNames{
		Files:       "files",
		StoryPrompt: "story_prompt",
		MaxWords:    "max_words",
		MaxBeats:    "max_beats",
		APIKey:      "api_key",
	}
}

// FieldNamesFromConfig fills blanks in cfg with the defaults.
func FieldNamesFromConfig(cfg shared.FieldsConfig) FieldNames {
	f := DefaultFieldNames()
	for _, pair := range []struct {
		dst *string
		src string
	}{
		{&f.Files, cfg.Files},
		{&f.StoryPrompt, cfg.StoryPrompt},
		{&f.MaxWords, cfg.MaxWords},
		{&f.MaxBeats, cfg.MaxBeats},
		{&f.APIKey, cfg.APIKey},
	} {
		if pair.src != "" {
			*pair.dst = pair.src
		}
	}
	return f
}

// Name returns the field name for an option.
func (f FieldNames) Name(field models.OptionField) string {
	switch field {
	case models.FieldStoryPrompt:
		return f.StoryPrompt
	case models.FieldMaxWords:
		return f.MaxWords
	case models.FieldMaxBeats:
		return f.MaxBeats
	case models.FieldAPIKey:
		return f.APIKey
	default:
		return ""
	}
}
