package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photoyarn/internal/intake"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/services"
	"github.com/desertthunder/photoyarn/internal/shared"
)

const (
	DefaultStorageKey = "storyData"

	MsgUploadFailed     = "An error occurred while uploading your files."
	MsgProcessingFailed = "An error occurred while processing your files."
)

// Presenter renders the controller's affordances.
type Presenter interface {
	models.Redirector
	SetSubmitEnabled(enabled bool)
	SetProgressVisible(visible bool)
	SetIntakeVisible(visible bool)
	Alert(message string)
}

// NopPresenter discards every presentation call.
type NopPresenter struct{}

func (NopPresenter) Redirect(models.Route)   {}
func (NopPresenter) SetSubmitEnabled(bool)   {}
func (NopPresenter) SetProgressVisible(bool) {}
func (NopPresenter) SetIntakeVisible(bool)   {}
func (NopPresenter) Alert(string)            {}

// Opts configures a [Controller].
type Opts struct {
	Intake     *intake.Intake
	Uploader   services.Uploader
	Storage    models.Storage
	Presenter  Presenter
	Logger     *log.Logger
	StorageKey string
}

// Controller owns the upload lifecycle for one intake session.
type Controller struct {
	mu        sync.Mutex
	state     models.UploadState
	options   models.UploadOptions
	lastErr   error
	intake    *intake.Intake
	uploader  services.Uploader
	storage   models.Storage
	presenter Presenter
	logger    *log.Logger
	key       string
}

// Attempt is a snapshot of one submission, taken when entering Submitting.
type Attempt struct {
	files    models.FileSet
	options  models.UploadOptions
	uploader services.Uploader
}

// Result is what an [Attempt] produced: an outcome or an error.
type Result struct {
	Outcome *models.Outcome
	Err     error
}

// New creates a [Controller] in Idle and pushes the initial affordances to the presenter.
func New(opts Opts) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Intake == nil {
		opts.Intake = intake.New(intake.Policy{}, opts.Logger)
	}
	if opts.Presenter == nil {
		opts.Presenter = NopPresenter{}
	}
	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}

	c := &Controller{
		state:     models.Idle,
		intake:    opts.Intake,
		uploader:  opts.Uploader,
		storage:   opts.Storage,
		presenter: opts.Presenter,
		logger:    opts.Logger,
		key:       opts.StorageKey,
	}

	c.presenter.SetSubmitEnabled(c.intake.SubmitEnabled())
	c.presenter.SetProgressVisible(false)
	c.presenter.SetIntakeVisible(true)
	return c
}

// State returns the current upload state.
func (c *Controller) State() models.UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error behind the most recent Failed transition, or nil.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Files returns the current selection.
func (c *Controller) Files() models.FileSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intake.Files()
}

// Listing returns the current selection as "name (size)" lines.
func (c *Controller) Listing() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intake.Listing()
}

// Highlighted reports whether the drop area is highlighted.
func (c *Controller) Highlighted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intake.Highlighted()
}

// SubmitEnabled reports whether [Controller.Begin] would currently succeed.
func (c *Controller) SubmitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canBegin()
}

// SelectFiles replaces the selection. It is ignored while a request is outstanding.
func (c *Controller) SelectFiles(raw []models.RawFile) models.FileSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == models.Submitting {
		c.logger.Debug("selection ignored while submitting", "offered", len(raw))
		return c.intake.Files()
	}

	files := c.intake.SelectFiles(raw)
	c.presenter.SetSubmitEnabled(c.canBegin())
	return files
}

// HandleDrag forwards a drag event to intake and reports whether the default action is suppressed.
//
// A drop while submitting still suppresses the default action but does not change the selection.
func (c *Controller) HandleDrag(kind intake.DragKind, target intake.DropTarget, files []models.RawFile) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == models.Submitting && kind == intake.Drop {
		return true
	}

	suppressed := c.intake.HandleDrag(kind, target, files)
	if kind == intake.Drop && target == intake.DropArea {
		c.presenter.SetSubmitEnabled(c.canBegin())
	}
	return suppressed
}

// SetOptions stores the options sent with the next attempt.
func (c *Controller) SetOptions(opts models.UploadOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options = opts
}

func (c *Controller) canBegin() bool {
	return (c.state == models.Idle || c.state == models.Failed) && !c.intake.Empty()
}

// Begin enters Submitting and returns the attempt to run.
//
// It returns false and changes nothing when the state is not Idle or Failed, or nothing is selected.
func (c *Controller) Begin() (*Attempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.canBegin() {
		c.logger.Debug("submit ignored", "state", c.state, "files", c.intake.Files().Len())
		return nil, false
	}

	c.state = models.Submitting
	c.lastErr = nil
	c.presenter.SetSubmitEnabled(false)
	c.presenter.SetProgressVisible(true)
	c.presenter.SetIntakeVisible(false)

	files := c.intake.Files()
	c.logger.Info("upload started", "files", files.Len(), "bytes", files.TotalBytes())

	return &Attempt{files: files, options: c.options, uploader: c.uploader}, true
}

// Files returns the files captured by the attempt.
func (a *Attempt) Files() models.FileSet { return a.files }

// Run performs the single network request for the attempt.
func (a *Attempt) Run(ctx context.Context) Result {
	if a.uploader == nil {
		return Result{Err: fmt.Errorf("%w: no uploader configured", shared.ErrTransportFailure)}
	}
	if err := a.options.Validate(); err != nil {
		return Result{Err: fmt.Errorf("%w: %w", shared.ErrTransportFailure, err)}
	}

	outcome, err := a.uploader.Upload(ctx, a.files, a.options)
	return Result{Outcome: outcome, Err: err}
}

// Resolve applies an attempt's result and returns the resulting state.
//
// Results arriving outside Submitting are discarded.
func (c *Controller) Resolve(r Result) models.UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != models.Submitting {
		c.logger.Warn("stale upload result discarded", "state", c.state)
		return c.state
	}

	switch {
	case r.Err != nil && errors.Is(r.Err, shared.ErrMalformedPayload):
		c.fail(MsgProcessingFailed, r.Err)
	case r.Err != nil:
		c.fail(MsgUploadFailed, r.Err)
	case r.Outcome == nil:
		c.fail(MsgProcessingFailed, fmt.Errorf("%w: empty outcome", shared.ErrMalformedPayload))
	case r.Outcome.Kind == models.OutcomeStory:
		c.succeed(models.StoryRoute(r.Outcome.StoryID))
	case r.Outcome.Kind == models.OutcomeSlides:
		if c.storage == nil {
			c.fail(MsgProcessingFailed, fmt.Errorf("%w: no storage configured", shared.ErrStorageWrite))
			break
		}
		if err := c.storage.Set(c.key, string(r.Outcome.Payload)); err != nil {
			c.fail(MsgProcessingFailed, fmt.Errorf("%w: %v", shared.ErrStorageWrite, err))
			break
		}
		c.succeed(models.SlideshowRoute)
	case r.Outcome.Kind == models.OutcomeFailure:
		msg := r.Outcome.Message
		if msg == "" {
			msg = MsgProcessingFailed
		}
		c.fail(msg, fmt.Errorf("%w: %s", shared.ErrBackendRejected, msg))
	default:
		c.fail(MsgProcessingFailed, fmt.Errorf("%w: unknown outcome %s", shared.ErrMalformedPayload, r.Outcome.Kind))
	}

	return c.state
}

// Submit runs Begin, Run and Resolve in sequence.
func (c *Controller) Submit(ctx context.Context) (models.UploadState, error) {
	attempt, ok := c.Begin()
	if !ok {
		return c.State(), shared.ErrSubmitUnavailable
	}

	state := c.Resolve(attempt.Run(ctx))
	return state, c.LastError()
}

func (c *Controller) succeed(route models.Route) {
	c.state = models.Succeeded
	c.logger.Info("upload resolved", "state", c.state, "route", route)
	c.presenter.SetProgressVisible(false)
	c.presenter.Redirect(route)
	c.intake.Reset()
}

func (c *Controller) fail(message string, err error) {
	c.state = models.Failed
	c.lastErr = err
	c.logger.Error("upload resolved", "state", c.state, "err", err)
	c.presenter.Alert(message)
	c.presenter.SetProgressVisible(false)
	c.presenter.SetSubmitEnabled(c.canBegin())
	c.presenter.SetIntakeVisible(true)
}
