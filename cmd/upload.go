package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/photoyarn/internal/intake"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/shared"
	"github.com/desertthunder/photoyarn/internal/slideshow"
	"github.com/desertthunder/photoyarn/internal/upload"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// readPassword reads from a terminal without echo. Replaced in tests.
var readPassword = term.ReadPassword

// UploadSummary is the --json output of the upload command.
type UploadSummary struct {
	State   string   `json:"state"`
	Session string   `json:"session"`
	Files   []string `json:"files"`
	Route   string   `json:"route,omitempty"`
	StoryID string   `json:"story_id,omitempty"`
	URL     string   `json:"url,omitempty"`
	Slides  int      `json:"slides,omitempty"`
	Alert   string   `json:"alert,omitempty"`
}

// linePresenter renders controller affordances as plain output lines.
type linePresenter struct {
	out   io.Writer
	quiet bool
	route models.Route
	alert string
}

func (p *linePresenter) Redirect(route models.Route) { p.route = route }
func (p *linePresenter) SetSubmitEnabled(bool)       {}
func (p *linePresenter) SetIntakeVisible(bool)       {}
func (p *linePresenter) Alert(message string)        { p.alert = message }

func (p *linePresenter) SetProgressVisible(visible bool) {
	if visible && !p.quiet {
		fmt.Fprintln(p.out, "Uploading...")
	}
}

// Upload selects the given paths, submits them once and reports where the user would be sent.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one file path is required", shared.ErrMissingArgument)
	}

	opts := models.UploadOptions{
		StoryPrompt: cmd.String("prompt"),
		MaxWords:    cmd.Int("max-words"),
		MaxBeats:    cmd.Int("max-beats"),
		APIKey:      cmd.String("api-key"),
	}
	if cmd.Bool("ask-api-key") {
		key, err := r.promptSecret("API key: ")
		if err != nil {
			return fmt.Errorf("%w: failed to read API key: %v", shared.ErrInvalidArgument, err)
		}
		opts.APIKey = key
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	sessionID := r.sessionID(cmd)
	storage, closeDB, err := r.openStorage(sessionID)
	if err != nil {
		return err
	}
	defer closeDB()

	useJSON := cmd.Bool("json")
	presenter := &linePresenter{out: r.output, quiet: useJSON}
	policy := intake.NewPolicy(r.config.Upload.AllowedExtensions...)

	ctrl := upload.New(upload.Opts{
		Intake:     intake.New(policy, r.logger),
		Uploader:   r.uploader,
		Storage:    storage,
		Presenter:  presenter,
		Logger:     r.logger,
		StorageKey: r.storageKey(),
	})

	files := ctrl.SelectFiles(intake.RawFilesFromPaths(paths))
	if files.Empty() {
		return fmt.Errorf("%w: none of the %d paths can be uploaded", shared.ErrValidationRejected, len(paths))
	}

	if !useJSON {
		r.writePlainHeader(fmt.Sprintf("Selected files (%d)", files.Len()))
		for _, line := range ctrl.Listing() {
			r.writePlain("  %s\n", line)
		}
		r.writePlain("\n")
	}

	ctrl.SetOptions(opts)
	state, submitErr := ctrl.Submit(ctx)
	if errors.Is(submitErr, shared.ErrSubmitUnavailable) {
		return submitErr
	}

	summary := UploadSummary{
		State:   state.String(),
		Session: sessionID,
		Files:   files.Names(),
		Route:   presenter.route.String(),
		Alert:   presenter.alert,
	}
	if id, ok := presenter.route.StoryID(); ok {
		summary.StoryID = id
		summary.URL = shared.JoinURL(r.config.Backend.BaseURL, presenter.route.String())
	}
	if presenter.route == models.SlideshowRoute {
		summary.Slides = slideshow.Load(storage, r.storageKey(), presenter, r.logger).Len()
	}

	if useJSON {
		if err := r.writeJSON(summary, true); err != nil {
			return err
		}
	} else {
		r.writeUploadSummary(summary)
	}

	if state == models.Failed {
		return fmt.Errorf("upload failed: %w", submitErr)
	}
	return nil
}

func (r *Runner) writeUploadSummary(s UploadSummary) {
	switch {
	case s.StoryID != "":
		r.writePlain("✓ Story created: %s\n", s.StoryID)
		r.writePlain("View it at %s\n", s.URL)
	case s.Route == models.SlideshowRoute.String():
		r.writePlain("✓ %d slides saved to session %q\n", s.Slides, s.Session)
		r.writePlain("Run 'photoyarn slideshow show --session %s' to view them\n", s.Session)
	default:
		r.writePlain("✗ %s\n", s.Alert)
	}
}

// promptSecret reads one line from the runner's input, without echo when it is a terminal.
func (r *Runner) promptSecret(prompt string) (string, error) {
	if f, ok := r.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(r.output, prompt)
		b, err := readPassword(int(f.Fd()))
		fmt.Fprintln(r.output)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
