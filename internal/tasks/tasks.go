// package tasks implements slide export operations.
//
// The core abstraction is ExportEngine, which downloads slide images and writes a durable copy of a story.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photoyarn/internal/formatter"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	FormatMarkdown = "markdown"
	FormatText     = "text"

	maxConcurrency = 10
)

// ExportOpts contains configuration for slide exports.
type ExportOpts struct {
	Format        string       // Export format: markdown or text
	OutputDir     string       // Output directory (default: story_export_{epoch})
	Title         string       // Markdown heading
	BaseURL       string       // Backend base URL for resolving relative image URLs
	Concurrency   int          // Concurrent downloads (default: 4)
	RatePerSecond float64      // Downloads per second (default: 5)
	Client        *http.Client // HTTP client for downloads
}

// ImageResult records the download of one slide image.
type ImageResult struct {
	Index int    // Slide position
	URL   string // Resolved absolute URL
	File  string // File name within the output directory, empty on failure
	Error error  // Download or write failure
}

// ExportResult summarizes an export.
type ExportResult struct {
	OutputDirectory string
	StoryFile       string
	Images          []ImageResult
	Downloaded      int
	Failed          int
}

// ExportEngine writes slide sequences to disk.
type ExportEngine struct {
	logger *log.Logger
}

// NewExportEngine creates an [ExportEngine].
func NewExportEngine(logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExportEngine{logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Export downloads each slide image and writes the story file.
func (e *ExportEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, slides models.SlideSequence, opts ExportOpts) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = FormatMarkdown
	}
	if opts.Format != FormatMarkdown && opts.Format != FormatText {
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("story_export_%d", time.Now().Unix())
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Concurrency > maxConcurrency {
		opts.Concurrency = maxConcurrency
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		OutputDirectory: opts.OutputDir,
		Images:          make([]ImageResult, len(slides)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	total := len(slides)
	var completed atomic.Int32
	e.sendProgress(progress, downloadStartedUpdate(total))

	for i, slide := range slides {
		g.Go(func() error {
			res := ImageResult{Index: i, URL: ResolveImageURL(opts.BaseURL, slide.ImageURL)}

			if res.URL == "" {
				res.Error = fmt.Errorf("%w: slide has no image", shared.ErrInvalidInput)
			} else if err := limiter.Wait(gctx); err != nil {
				return err
			} else {
				res.File, res.Error = e.saveImage(gctx, opts, i, res.URL)
			}

			result.Images[i] = res
			step := int(completed.Add(1))
			if res.Error != nil {
				e.logger.Warn("image download failed", "slide", i+1, "url", res.URL, "err", res.Error)
				e.sendProgress(progress, downloadFailedUpdate(step, total, res))
			} else {
				e.sendProgress(progress, downloadCompletedUpdate(step, total, res))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export cancelled: %w", err)
	}

	images := make([]string, len(slides))
	for i, res := range result.Images {
		if res.Error != nil {
			result.Failed++
			images[i] = res.URL
			continue
		}
		result.Downloaded++
		images[i] = res.File
	}

	e.sendProgress(progress, writeExportUpdate(opts.Format))

	var (
		storyFile string
		err       error
	)
	switch opts.Format {
	case FormatText:
		storyFile, err = formatter.WriteTextExport(opts.OutputDir, slides)
	default:
		storyFile, err = formatter.WriteMarkdownExport(opts.OutputDir, opts.Title, slides, images)
	}
	if err != nil {
		return result, fmt.Errorf("images downloaded but failed to write story: %w", err)
	}

	result.StoryFile = storyFile
	e.logger.Info("export complete", "dir", opts.OutputDir, "downloaded", result.Downloaded, "failed", result.Failed)
	return result, nil
}

func (e *ExportEngine) saveImage(ctx context.Context, opts ExportOpts, index int, imageURL string) (string, error) {
	data, err := formatter.DownloadImage(ctx, opts.Client, imageURL)
	if err != nil {
		return "", err
	}

	name := ImageFileName(index, imageURL)
	if err := os.WriteFile(filepath.Join(opts.OutputDir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return name, nil
}

// ResolveImageURL makes a slide image URL absolute against baseURL.
func ResolveImageURL(baseURL, imageURL string) string {
	if imageURL == "" {
		return ""
	}
	u, err := url.Parse(imageURL)
	if err != nil || u.IsAbs() || baseURL == "" {
		return imageURL
	}
	return shared.JoinURL(baseURL, imageURL)
}

// ImageFileName builds a stable, ordered file name such as "01_beach.jpg" for a slide image.
func ImageFileName(index int, imageURL string) string {
	base := ""
	if u, err := url.Parse(imageURL); err == nil {
		base = path.Base(u.Path)
	}
	if base == "" || base == "." || base == "/" {
		base = "slide.jpg"
	}
	base = strings.Map(func(r rune) rune {
		if r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, base)
	return fmt.Sprintf("%02d_%s", index+1, base)
}
