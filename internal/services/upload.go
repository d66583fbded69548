// Upload service for posting multipart submissions to the story backend
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/shared"
)

var _ Uploader = (*UploadService)(nil)

// UploadService posts files and options to the backend's upload endpoint.
type UploadService struct {
	baseURL    string
	uploadPath string
	httpClient *http.Client
	fields     FieldNames
}

// NewUploadService creates an upload service for the backend at baseURL.
func NewUploadService(baseURL, uploadPath string, client *http.Client, fields FieldNames) *UploadService {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:5000"
	}
	if uploadPath == "" {
		uploadPath = "/upload"
	}
	if client == nil {
		client = http.DefaultClient
	}
	if fields.Files == "" {
		fields = DefaultFieldNames()
	}

	return &UploadService{
		baseURL:    baseURL,
		uploadPath: uploadPath,
		httpClient: client,
		fields:     fields,
	}
}

// Endpoint returns the absolute upload URL.
func (u *UploadService) Endpoint() string {
	return shared.JoinURL(u.baseURL, u.uploadPath)
}

// Upload performs exactly one POST carrying files and the present options.
func (u *UploadService) Upload(ctx context.Context, files models.FileSet, opts models.UploadOptions) (*models.Outcome, error) {
	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(u.writeBody(mw, files, opts))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint(), pr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrTransportFailure, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransportFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload models.StoryPayload
		if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
			return models.FailureOutcome(payload.Error), nil
		}
		return nil, fmt.Errorf("%w: unexpected status %d", shared.ErrTransportFailure, resp.StatusCode)
	}

	return ParseStoryPayload(body)
}

// writeBody streams every file part, then the option parts, and closes the multipart writer.
func (u *UploadService) writeBody(mw *multipart.Writer, files models.FileSet, opts models.UploadOptions) error {
	for _, f := range files {
		if err := u.writeFile(mw, f); err != nil {
			return err
		}
	}

	for _, opt := range opts.Fields() {
		if err := mw.WriteField(u.fields.Name(opt.Field), opt.Value); err != nil {
			return fmt.Errorf("failed to write field: %w", err)
		}
	}

	return mw.Close()
}

func (u *UploadService) writeFile(mw *multipart.Writer, f models.SelectedFile) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer src.Close()

	part, err := mw.CreateFormFile(u.fields.Files, f.Name)
	if err != nil {
		return fmt.Errorf("failed to create part for %s: %w", f.Name, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("failed to copy %s: %w", f.Name, err)
	}
	return nil
}

// ParseStoryPayload decodes a 2xx response body into an [models.Outcome].
func ParseStoryPayload(body []byte) (*models.Outcome, error) {
	var payload models.StoryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedPayload, err)
	}

	if !payload.Success || payload.Error != "" {
		return models.FailureOutcome(payload.Error), nil
	}

	hasID := payload.StoryID != ""
	hasSlides := payload.Slides != nil

	switch {
	case hasID && hasSlides:
		return nil, fmt.Errorf("%w: both story_id and slides present", shared.ErrMalformedPayload)
	case hasID:
		return models.StoryOutcome(payload.StoryID), nil
	case hasSlides:
		return models.SlidesOutcome(payload.Slides.Clone(), body), nil
	default:
		return nil, fmt.Errorf("%w: neither story_id nor slides present", shared.ErrMalformedPayload)
	}
}
