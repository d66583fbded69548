package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/desertthunder/photoyarn/internal/intake"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/repositories"
	"github.com/desertthunder/photoyarn/internal/shared"
	tu "github.com/desertthunder/photoyarn/internal/testing"
)

var sampleFiles = []models.RawFile{
	{Name: "report.jpg", Path: "/tmp/report.jpg", SizeBytes: 2048},
	{Name: "notes.zip", Path: "/tmp/notes.zip", SizeBytes: 10240},
}

type fixture struct {
	ctrl      *Controller
	presenter *tu.RecordingPresenter
	uploader  *tu.MockUploader
	storage   *repositories.MemoryStorage
}

func newFixture(t *testing.T, outcome *models.Outcome, err error) *fixture {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	f := &fixture{
		presenter: &tu.RecordingPresenter{},
		uploader:  &tu.MockUploader{Outcome: outcome, Err: err},
		storage:   repositories.NewMemoryStorage(),
	}
	f.ctrl = New(Opts{
		Intake:    intake.New(intake.NewPolicy("zip", "jpg", "jpeg"), logger),
		Uploader:  f.uploader,
		Storage:   f.storage,
		Presenter: f.presenter,
		Logger:    logger,
	})
	return f
}

func TestController(t *testing.T) {
	t.Run("Initial State", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		if f.ctrl.State() != models.Idle {
			t.Errorf("expected Idle, got %s", f.ctrl.State())
		}
		if f.presenter.SubmitEnabled || f.presenter.ProgressVisible || !f.presenter.IntakeVisible {
			t.Errorf("unexpected initial affordances %+v", f.presenter)
		}
	})

	t.Run("Selection Enables Submit", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.ctrl.SelectFiles(sampleFiles)
		if !f.presenter.SubmitEnabled || !f.ctrl.SubmitEnabled() {
			t.Error("expected submit enabled after selection")
		}

		f.ctrl.SelectFiles([]models.RawFile{{Name: "a.png"}})
		if f.presenter.SubmitEnabled {
			t.Error("expected submit disabled after an all-rejected selection")
		}
	})

	t.Run("Drop Selects Files", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.ctrl.HandleDrag(intake.DragEnter, intake.DropArea, nil)
		if !f.ctrl.Highlighted() {
			t.Error("expected drop area highlighted")
		}
		if !f.ctrl.HandleDrag(intake.Drop, intake.DropArea, sampleFiles) {
			t.Error("expected default action suppressed")
		}
		if f.ctrl.Files().Len() != 2 || !f.presenter.SubmitEnabled {
			t.Errorf("expected 2 files and submit enabled, got %d", f.ctrl.Files().Len())
		}
		if got := f.ctrl.Listing(); len(got) != 2 || got[0] != "report.jpg (2.00 KB)" {
			t.Errorf("unexpected listing %v", got)
		}
	})

	t.Run("Begin Guard", func(t *testing.T) {
		t.Run("Empty Selection", func(t *testing.T) {
			f := newFixture(t, nil, nil)
			if _, ok := f.ctrl.Begin(); ok {
				t.Fatal("expected Begin to refuse with no files")
			}
			if f.ctrl.State() != models.Idle {
				t.Errorf("expected state unchanged, got %s", f.ctrl.State())
			}
		})

		t.Run("Submitting Disables And Hides", func(t *testing.T) {
			f := newFixture(t, nil, nil)
			f.ctrl.SelectFiles(sampleFiles)

			attempt, ok := f.ctrl.Begin()
			if !ok {
				t.Fatal("expected Begin to succeed")
			}
			if attempt.Files().Len() != 2 {
				t.Errorf("expected attempt to capture 2 files, got %d", attempt.Files().Len())
			}
			if f.ctrl.State() != models.Submitting {
				t.Errorf("expected Submitting, got %s", f.ctrl.State())
			}
			if f.presenter.SubmitEnabled || !f.presenter.ProgressVisible || f.presenter.IntakeVisible {
				t.Errorf("unexpected submitting affordances %+v", f.presenter)
			}
		})

		t.Run("Second Begin While Submitting", func(t *testing.T) {
			f := newFixture(t, nil, nil)
			f.ctrl.SelectFiles(sampleFiles)
			f.ctrl.Begin()

			if _, ok := f.ctrl.Begin(); ok {
				t.Fatal("expected second Begin to be refused")
			}
			if _, err := f.ctrl.Submit(context.Background()); !errors.Is(err, shared.ErrSubmitUnavailable) {
				t.Errorf("expected ErrSubmitUnavailable, got %v", err)
			}
			if f.uploader.CallCount() != 0 {
				t.Errorf("expected no requests issued, got %d", f.uploader.CallCount())
			}
		})

		t.Run("Concurrent Begin Yields One Attempt", func(t *testing.T) {
			f := newFixture(t, nil, nil)
			f.ctrl.SelectFiles(sampleFiles)

			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				count int
			)
			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, ok := f.ctrl.Begin(); ok {
						mu.Lock()
						count++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			if count != 1 {
				t.Errorf("expected exactly one attempt, got %d", count)
			}
		})

		t.Run("Selection Ignored While Submitting", func(t *testing.T) {
			f := newFixture(t, nil, nil)
			f.ctrl.SelectFiles(sampleFiles)
			f.ctrl.Begin()

			f.ctrl.SelectFiles([]models.RawFile{{Name: "other.jpg"}})
			f.ctrl.HandleDrag(intake.Drop, intake.DropArea, []models.RawFile{{Name: "other.jpg"}})
			if f.ctrl.Files().Len() != 2 {
				t.Errorf("expected selection unchanged while submitting, got %v", f.ctrl.Files().Names())
			}
			if f.presenter.SubmitEnabled {
				t.Error("submit should stay disabled while submitting")
			}
		})
	})

	t.Run("Resolve", func(t *testing.T) {
		t.Run("Story Redirects", func(t *testing.T) {
			f := newFixture(t, models.StoryOutcome("abc 1"), nil)
			f.ctrl.SelectFiles(sampleFiles)

			state, err := f.ctrl.Submit(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if state != models.Succeeded {
				t.Errorf("expected Succeeded, got %s", state)
			}
			if f.presenter.Last() != models.StoryRoute("abc 1") {
				t.Errorf("expected redirect to story route, got %s", f.presenter.Last())
			}
			if f.uploader.CallCount() != 1 {
				t.Errorf("expected exactly one request, got %d", f.uploader.CallCount())
			}
			if !f.ctrl.Files().Empty() {
				t.Error("expected intake reset after success")
			}
		})

		t.Run("Slides Stored Verbatim Then Redirect", func(t *testing.T) {
			payload := []byte(`{"success":true,"slides":[{"image_url":"/a.jpg","story_segment":"Once."}]}`)
			f := newFixture(t, models.SlidesOutcome(models.SlideSequence{{ImageURL: "/a.jpg", StorySegment: "Once."}}, payload), nil)
			f.ctrl.SelectFiles(sampleFiles)

			state, _ := f.ctrl.Submit(context.Background())
			if state != models.Succeeded {
				t.Errorf("expected Succeeded, got %s", state)
			}

			stored, ok, _ := f.storage.Get(DefaultStorageKey)
			if !ok || stored != string(payload) {
				t.Errorf("expected payload stored under %s, got %q", DefaultStorageKey, stored)
			}
			if f.presenter.Last() != models.SlideshowRoute {
				t.Errorf("expected redirect to slideshow, got %s", f.presenter.Last())
			}
		})

		tc := []struct {
			name    string
			outcome *models.Outcome
			err     error
			alert   string
			wantErr error
		}{
			{
				name:    "transport failure",
				err:     fmt.Errorf("%w: connection refused", shared.ErrTransportFailure),
				alert:   MsgUploadFailed,
				wantErr: shared.ErrTransportFailure,
			},
			{
				name:    "backend rejection shows message",
				outcome: models.FailureOutcome("Invalid API key"),
				alert:   "Invalid API key",
				wantErr: shared.ErrBackendRejected,
			},
			{
				name:    "backend rejection without message",
				outcome: models.FailureOutcome(""),
				alert:   MsgProcessingFailed,
				wantErr: shared.ErrBackendRejected,
			},
			{
				name:    "malformed payload",
				err:     fmt.Errorf("%w: not json", shared.ErrMalformedPayload),
				alert:   MsgProcessingFailed,
				wantErr: shared.ErrMalformedPayload,
			},
			{
				name:    "nil outcome",
				alert:   MsgProcessingFailed,
				wantErr: shared.ErrMalformedPayload,
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t, tt.outcome, tt.err)
				f.ctrl.SelectFiles(sampleFiles)

				state, err := f.ctrl.Submit(context.Background())
				if state != models.Failed {
					t.Errorf("expected Failed, got %s", state)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				if f.presenter.LastAlert() != tt.alert {
					t.Errorf("expected alert %q, got %q", tt.alert, f.presenter.LastAlert())
				}
				if !f.presenter.SubmitEnabled || f.presenter.ProgressVisible || !f.presenter.IntakeVisible {
					t.Errorf("unexpected failed affordances %+v", f.presenter)
				}
				if len(f.presenter.Routes) != 0 {
					t.Errorf("expected no redirect, got %v", f.presenter.Routes)
				}
				if f.ctrl.Files().Len() != 2 {
					t.Error("expected selection preserved after failure")
				}
			})
		}

		t.Run("Storage Write Failure", func(t *testing.T) {
			logger := shared.NewLogger(io.Discard)
			presenter := &tu.RecordingPresenter{}
			ctrl := New(Opts{
				Intake:    intake.New(intake.Policy{}, logger),
				Uploader:  &tu.MockUploader{Outcome: models.SlidesOutcome(nil, []byte(`{}`))},
				Storage:   tu.FailingStorage{},
				Presenter: presenter,
				Logger:    logger,
			})
			ctrl.SelectFiles(sampleFiles)

			state, err := ctrl.Submit(context.Background())
			if state != models.Failed || !errors.Is(err, shared.ErrStorageWrite) {
				t.Errorf("expected Failed with ErrStorageWrite, got %s %v", state, err)
			}
			if presenter.LastAlert() != MsgProcessingFailed {
				t.Errorf("expected processing alert, got %q", presenter.LastAlert())
			}
		})

		t.Run("Retry After Failure", func(t *testing.T) {
			f := newFixture(t, nil, fmt.Errorf("%w: offline", shared.ErrTransportFailure))
			f.ctrl.SelectFiles(sampleFiles)
			f.ctrl.Submit(context.Background())

			f.uploader.Err = nil
			f.uploader.Outcome = models.StoryOutcome("s1")
			state, err := f.ctrl.Submit(context.Background())
			if err != nil || state != models.Succeeded {
				t.Errorf("expected retry to succeed, got %s %v", state, err)
			}
			if f.uploader.CallCount() != 2 {
				t.Errorf("expected 2 requests, got %d", f.uploader.CallCount())
			}
		})

		t.Run("Stale Result Discarded", func(t *testing.T) {
			f := newFixture(t, nil, nil)
			if got := f.ctrl.Resolve(Result{Outcome: models.StoryOutcome("x")}); got != models.Idle {
				t.Errorf("expected Idle, got %s", got)
			}
			if len(f.presenter.Routes) != 0 {
				t.Error("stale result should not redirect")
			}
		})
	})

	t.Run("Options", func(t *testing.T) {
		t.Run("Sent With Attempt", func(t *testing.T) {
			f := newFixture(t, models.StoryOutcome("s1"), nil)
			f.ctrl.SelectFiles(sampleFiles)
			opts := models.UploadOptions{StoryPrompt: "a heist", MaxWords: 80}
			f.ctrl.SetOptions(opts)
			f.ctrl.Submit(context.Background())

			if f.uploader.Options != opts {
				t.Errorf("expected options %+v, got %+v", opts, f.uploader.Options)
			}
		})

		t.Run("Invalid Options Fail Without Request", func(t *testing.T) {
			f := newFixture(t, models.StoryOutcome("s1"), nil)
			f.ctrl.SelectFiles(sampleFiles)
			f.ctrl.SetOptions(models.UploadOptions{MaxWords: -1})

			state, err := f.ctrl.Submit(context.Background())
			if state != models.Failed || !errors.Is(err, shared.ErrInvalidOption) {
				t.Errorf("expected Failed with ErrInvalidOption, got %s %v", state, err)
			}
			if f.uploader.CallCount() != 0 {
				t.Errorf("expected no request, got %d", f.uploader.CallCount())
			}
		})
	})

	t.Run("Run Without Lock", func(t *testing.T) {
		f := newFixture(t, models.StoryOutcome("s1"), nil)
		f.uploader.Block = make(chan struct{})
		f.ctrl.SelectFiles(sampleFiles)

		attempt, ok := f.ctrl.Begin()
		if !ok {
			t.Fatal("expected Begin to succeed")
		}

		done := make(chan Result)
		go func() { done <- attempt.Run(context.Background()) }()

		if f.ctrl.State() != models.Submitting {
			t.Errorf("expected Submitting while request in flight, got %s", f.ctrl.State())
		}
		close(f.uploader.Block)

		if state := f.ctrl.Resolve(<-done); state != models.Succeeded {
			t.Errorf("expected Succeeded, got %s", state)
		}
	})

	t.Run("NopPresenter Default", func(t *testing.T) {
		ctrl := New(Opts{Uploader: &tu.MockUploader{Outcome: models.StoryOutcome("s1")}, Logger: shared.NewLogger(io.Discard)})
		ctrl.SelectFiles(sampleFiles)
		if state, err := ctrl.Submit(context.Background()); err != nil || state != models.Succeeded {
			t.Errorf("expected Succeeded, got %s %v", state, err)
		}
	})
}
