// package slideshow presents a stored slide sequence one frame at a time
package slideshow

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photoyarn/internal/formatter"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/services"
	"github.com/desertthunder/photoyarn/internal/shared"
)

// Frame is the rendered state of the slideshow surface.
type Frame struct {
	ImageURL    string
	Text        string
	Counter     string
	PrevEnabled bool
	NextEnabled bool
	Empty       bool
}

// Navigator walks a slide sequence loaded once from session storage.
type Navigator struct {
	slides     models.SlideSequence
	cursor     int
	frame      Frame
	storage    models.Storage
	key        string
	redirector models.Redirector
	logger     *log.Logger
}

// Load reads the slide payload stored under key and renders the first slide.
//
// Missing or unreadable data yields an empty slideshow.
func Load(storage models.Storage, key string, redirector models.Redirector, logger *log.Logger) *Navigator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	n := &Navigator{storage: storage, key: key, redirector: redirector, logger: logger}

	slides, err := readSlides(storage, key)
	if err != nil {
		logger.Warn("slideshow started empty", "key", key, "err", err)
	}
	n.slides = slides
	n.Show(0)
	return n
}

// New creates a [Navigator] over slides that are already in memory.
func New(slides models.SlideSequence, storage models.Storage, key string, redirector models.Redirector, logger *log.Logger) *Navigator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	n := &Navigator{slides: slides.Clone(), storage: storage, key: key, redirector: redirector, logger: logger}
	n.Show(0)
	return n
}

func readSlides(storage models.Storage, key string) (models.SlideSequence, error) {
	if storage == nil {
		return nil, fmt.Errorf("%w: no storage", shared.ErrMissingSlideData)
	}

	raw, ok, err := storage.Get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMissingSlideData, err)
	}
	if !ok {
		return nil, shared.ErrMissingSlideData
	}

	outcome, err := services.ParseStoryPayload([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMissingSlideData, err)
	}
	if outcome.Kind != models.OutcomeSlides {
		return nil, fmt.Errorf("%w: stored payload holds %s", shared.ErrMissingSlideData, outcome.Kind)
	}
	return outcome.Slides, nil
}

// Show moves the cursor to i and returns the rendered frame.
//
// An out-of-range index leaves the cursor where it was.
func (n *Navigator) Show(i int) Frame {
	if len(n.slides) == 0 {
		n.cursor = 0
		n.frame = Frame{Counter: formatter.Counter(0, 0), Empty: true}
		return n.frame
	}

	if i >= 0 && i < len(n.slides) {
		n.cursor = i
	}

	slide := n.slides[n.cursor]
	n.frame = Frame{
		ImageURL:    slide.ImageURL,
		Text:        slide.StorySegment,
		Counter:     formatter.Counter(n.cursor, len(n.slides)),
		PrevEnabled: n.cursor > 0,
		NextEnabled: n.cursor < len(n.slides)-1,
	}
	return n.frame
}

// Next advances one slide, doing nothing on the last.
func (n *Navigator) Next() Frame {
	if n.cursor < len(n.slides)-1 {
		return n.Show(n.cursor + 1)
	}
	return n.frame
}

// Prev goes back one slide, doing nothing on the first.
func (n *Navigator) Prev() Frame {
	if n.cursor > 0 {
		return n.Show(n.cursor - 1)
	}
	return n.frame
}

// Restart clears the stored slides and returns to file intake.
func (n *Navigator) Restart() error {
	if n.storage != nil {
		if err := n.storage.Remove(n.key); err != nil {
			n.logger.Error("failed to clear slide data", "key", n.key, "err", err)
			return fmt.Errorf("%w: %v", shared.ErrStorageWrite, err)
		}
	}
	if n.redirector != nil {
		n.redirector.Redirect(models.IntakeRoute)
	}
	return nil
}

func (n *Navigator) Cursor() int  { return n.cursor }
func (n *Navigator) Len() int     { return len(n.slides) }
func (n *Navigator) Frame() Frame { return n.frame }

// Slides returns a copy of the sequence.
func (n *Navigator) Slides() models.SlideSequence { return n.slides.Clone() }

// Frames renders every slide in order without moving the cursor.
func (n *Navigator) Frames() []Frame {
	frames := make([]Frame, len(n.slides))
	for i, s := range n.slides {
		frames[i] = Frame{
			ImageURL:    s.ImageURL,
			Text:        s.StorySegment,
			Counter:     formatter.Counter(i, len(n.slides)),
			PrevEnabled: i > 0,
			NextEnabled: i < len(n.slides)-1,
		}
	}
	return frames
}
