package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/photoyarn/internal/formatter"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/shared"
	"github.com/desertthunder/photoyarn/internal/slideshow"
	"github.com/desertthunder/photoyarn/internal/tasks"
	"github.com/urfave/cli/v3"
)

// routeRecorder keeps the last route a navigator asked for.
type routeRecorder struct {
	route models.Route
}

func (rr *routeRecorder) Redirect(route models.Route) { rr.route = route }

// loadSlides opens the session store and loads its slideshow. Callers close the database.
func (r *Runner) loadSlides(cmd *cli.Command, redirector models.Redirector) (*slideshow.Navigator, string, func() error, error) {
	sessionID := r.sessionID(cmd)
	storage, closeDB, err := r.openStorage(sessionID)
	if err != nil {
		return nil, sessionID, nil, err
	}
	return slideshow.Load(storage, r.storageKey(), redirector, r.logger), sessionID, closeDB, nil
}

// SlideshowShow opens the TUI directly on the slideshow of a session.
func (r *Runner) SlideshowShow(ctx context.Context, cmd *cli.Command) error {
	return r.runTUI(ctx, cmd, models.SlideshowRoute)
}

// SlideshowPrint writes every slide of a session as text or JSON.
func (r *Runner) SlideshowPrint(ctx context.Context, cmd *cli.Command) error {
	nav, sessionID, closeDB, err := r.loadSlides(cmd, &routeRecorder{})
	if err != nil {
		return err
	}
	defer closeDB()

	if nav.Len() == 0 {
		return fmt.Errorf("%w: session %q", shared.ErrMissingSlideData, sessionID)
	}

	if cmd.Bool("json") {
		return r.writeJSON(nav.Slides(), cmd.Bool("pretty"))
	}

	data, err := formatter.ExportToText(nav.Slides())
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// SlideshowRestart clears the stored slides for a session.
func (r *Runner) SlideshowRestart(ctx context.Context, cmd *cli.Command) error {
	rec := &routeRecorder{}
	nav, sessionID, closeDB, err := r.loadSlides(cmd, rec)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := nav.Restart(); err != nil {
		return err
	}

	r.logger.Info("slideshow restarted", "session", sessionID, "slides", nav.Len())
	r.writePlain("✓ Cleared %d slides from session %q\n", nav.Len(), sessionID)
	r.writePlain("Next: %s\n", rec.route)
	return nil
}

// SlideshowExport downloads the slide images of a session and writes the story alongside them.
func (r *Runner) SlideshowExport(ctx context.Context, cmd *cli.Command) error {
	nav, sessionID, closeDB, err := r.loadSlides(cmd, &routeRecorder{})
	if err != nil {
		return err
	}
	defer closeDB()

	if nav.Len() == 0 {
		return fmt.Errorf("%w: session %q", shared.ErrMissingSlideData, sessionID)
	}

	opts := tasks.ExportOpts{
		Format:        cmd.String("format"),
		OutputDir:     cmd.String("output"),
		Title:         cmd.String("title"),
		BaseURL:       r.config.Backend.BaseURL,
		Concurrency:   r.config.Export.Concurrency,
		RatePerSecond: r.config.Export.RatePerSecond,
		Client:        r.httpClient,
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.DownloadImages:
				if update.Step == 0 {
					r.writePlain("📥 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.WriteExport:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Export(ctx, progressCh, nav.Slides(), opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Story: %s\n", result.StoryFile)
	r.writePlain("Images: %d downloaded, %d failed\n", result.Downloaded, result.Failed)
	return nil
}
