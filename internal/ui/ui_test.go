package ui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/photoyarn/internal/intake"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/repositories"
	"github.com/desertthunder/photoyarn/internal/shared"
	tu "github.com/desertthunder/photoyarn/internal/testing"
	"github.com/desertthunder/photoyarn/internal/upload"
)

const slidesPayload = `{"success":true,"slides":[{"image_url":"/img/1.jpg","story_segment":"Once"},{"image_url":"/img/2.jpg","story_segment":"upon"}]}`

type harness struct {
	model    *Model
	uploader *tu.MockUploader
	storage  *repositories.MemoryStorage
	opened   []string
	dir      string
}

func newHarness(t *testing.T, outcome *models.Outcome, start models.Route) *harness {
	t.Helper()
	h := &harness{
		uploader: &tu.MockUploader{Outcome: outcome},
		storage:  repositories.NewMemoryStorage(),
		dir:      t.TempDir(),
	}
	h.model = NewModel(context.Background(), Deps{
		Uploader: h.uploader,
		Storage:  h.storage,
		Policy:   intake.NewPolicy("jpg", "zip"),
		BaseURL:  "http://localhost:5000",
		Logger:   shared.NewLogger(io.Discard),
		OpenBrowser: func(url string) error {
			h.opened = append(h.opened, url)
			return nil
		},
		Start: start,
	})
	return h
}

func (h *harness) writeFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(h.dir, name)
	if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

func (h *harness) paste(text string) {
	h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
}

func (h *harness) press(msg tea.KeyMsg) tea.Cmd {
	_, cmd := h.model.Update(msg)
	return cmd
}

// drain runs cmd, expanding batches, and feeds every message back into the model.
func (h *harness) drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var msgs []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			msgs = append(msgs, h.drain(c)...)
		}
	case nil:
	default:
		msgs = append(msgs, msg)
		_, next := h.model.Update(msg)
		if _, ok := msg.(uploadResolvedMsg); ok {
			msgs = append(msgs, h.drain(next)...)
		}
	}
	return msgs
}

var (
	submitKey  = tea.KeyMsg{Type: tea.KeyCtrlS}
	rightKey   = tea.KeyMsg{Type: tea.KeyRight}
	leftKey    = tea.KeyMsg{Type: tea.KeyLeft}
	restartKey = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}
	tabKey     = tea.KeyMsg{Type: tea.KeyTab}
)

func TestModel(t *testing.T) {
	t.Run("Starts On Intake", func(t *testing.T) {
		h := newHarness(t, nil, "")
		if h.model.Current() != IntakeView {
			t.Errorf("expected intake view, got %s", h.model.Current())
		}
		if h.model.canSend {
			t.Error("expected submit disabled with no files")
		}
		if !strings.Contains(h.model.View(), "photoyarn") {
			t.Error("expected title in intake view")
		}
	})

	t.Run("Paste Drops Files", func(t *testing.T) {
		h := newHarness(t, nil, "")
		jpg := h.writeFile(t, "beach.jpg")
		txt := h.writeFile(t, "notes.txt")

		h.paste(jpg + " " + txt)

		files := h.model.Controller().Files()
		if files.Len() != 1 || files[0].Name != "beach.jpg" {
			t.Errorf("expected only beach.jpg selected, got %v", files.Names())
		}
		if !h.model.canSend {
			t.Error("expected submit enabled after drop")
		}
		if h.model.Controller().Highlighted() {
			t.Error("expected highlight cleared after drop")
		}
		if !strings.Contains(h.model.View(), "beach.jpg") {
			t.Error("expected file listing in view")
		}
	})

	t.Run("Enter Selects Typed Paths", func(t *testing.T) {
		h := newHarness(t, nil, "")
		h.model.inputs[fieldPaths].SetValue(h.writeFile(t, "a.zip"))

		h.press(tea.KeyMsg{Type: tea.KeyEnter})

		if h.model.Controller().Files().Len() != 1 {
			t.Errorf("expected 1 file, got %d", h.model.Controller().Files().Len())
		}
		if h.model.inputs[fieldPaths].Value() != "" {
			t.Error("expected paths field cleared")
		}
	})

	t.Run("Tab Cycles Focus", func(t *testing.T) {
		h := newHarness(t, nil, "")
		for i := 1; i <= fieldCount; i++ {
			h.press(tabKey)
			if h.model.focus != i%fieldCount {
				t.Errorf("expected focus %d, got %d", i%fieldCount, h.model.focus)
			}
		}
	})

	t.Run("Submit Without Files Is Ignored", func(t *testing.T) {
		h := newHarness(t, models.StoryOutcome("abc"), "")
		if cmd := h.press(submitKey); cmd != nil {
			t.Error("expected no command")
		}
		if h.uploader.CallCount() != 0 {
			t.Errorf("expected no upload, got %d", h.uploader.CallCount())
		}
		if h.model.Current() != IntakeView {
			t.Errorf("expected intake view, got %s", h.model.Current())
		}
	})

	t.Run("Invalid Option Alerts", func(t *testing.T) {
		h := newHarness(t, models.StoryOutcome("abc"), "")
		h.paste(h.writeFile(t, "beach.jpg"))
		h.model.inputs[fieldMaxWords].SetValue("lots")

		if cmd := h.press(submitKey); cmd != nil {
			t.Error("expected no command")
		}
		if !strings.Contains(h.model.alert, "max words") {
			t.Errorf("expected max words alert, got %q", h.model.alert)
		}
		if h.model.Controller().State() != models.Idle {
			t.Errorf("expected Idle, got %s", h.model.Controller().State())
		}
	})

	t.Run("Story Outcome Opens Browser", func(t *testing.T) {
		h := newHarness(t, models.StoryOutcome("abc"), "")
		h.paste(h.writeFile(t, "beach.jpg"))
		h.model.inputs[fieldPrompt].SetValue("a day out")
		h.model.inputs[fieldMaxBeats].SetValue("3")

		cmd := h.press(submitKey)
		if h.model.Current() != SubmittingView {
			t.Fatalf("expected submitting view, got %s", h.model.Current())
		}
		if !strings.Contains(h.model.View(), "Uploading 1 file") {
			t.Errorf("expected progress text, got %q", h.model.View())
		}

		h.drain(cmd)

		if h.model.Current() != StoryView {
			t.Fatalf("expected story view, got %s", h.model.Current())
		}
		if h.uploader.Options.StoryPrompt != "a day out" || h.uploader.Options.MaxBeats != 3 {
			t.Errorf("unexpected options %+v", h.uploader.Options)
		}
		if len(h.opened) != 1 || h.opened[0] != "http://localhost:5000/story/abc" {
			t.Errorf("expected story page opened, got %v", h.opened)
		}
		if !strings.Contains(h.model.View(), "Opened in your browser") {
			t.Error("expected browser notice")
		}
	})

	t.Run("Slides Outcome Shows Slideshow", func(t *testing.T) {
		slides := models.SlideSequence{{ImageURL: "/img/1.jpg", StorySegment: "Once"}, {ImageURL: "/img/2.jpg", StorySegment: "upon"}}
		h := newHarness(t, models.SlidesOutcome(slides, []byte(slidesPayload)), "")
		h.paste(h.writeFile(t, "beach.jpg"))

		h.drain(h.press(submitKey))

		if h.model.Current() != SlideshowView {
			t.Fatalf("expected slideshow view, got %s", h.model.Current())
		}
		if v, ok, _ := h.storage.Get(upload.DefaultStorageKey); !ok || v != slidesPayload {
			t.Errorf("expected payload stored, got %q", v)
		}

		nav := h.model.Navigator()
		if nav.Len() != 2 {
			t.Fatalf("expected 2 slides, got %d", nav.Len())
		}

		h.press(rightKey)
		if nav.Cursor() != 1 {
			t.Errorf("expected cursor 1, got %d", nav.Cursor())
		}
		h.press(rightKey)
		if nav.Cursor() != 1 {
			t.Errorf("expected cursor to stay at 1, got %d", nav.Cursor())
		}
		if !strings.Contains(h.model.View(), "2 of 2") {
			t.Error("expected counter in view")
		}
		h.press(leftKey)
		if nav.Cursor() != 0 {
			t.Errorf("expected cursor 0, got %d", nav.Cursor())
		}

		h.press(restartKey)
		if h.model.Current() != IntakeView {
			t.Errorf("expected intake view after restart, got %s", h.model.Current())
		}
		if _, ok, _ := h.storage.Get(upload.DefaultStorageKey); ok {
			t.Error("expected slides removed after restart")
		}
		if h.model.Controller().Files().Len() != 0 {
			t.Error("expected a fresh selection after restart")
		}
	})

	t.Run("Failure Outcome Returns To Intake", func(t *testing.T) {
		h := newHarness(t, models.FailureOutcome("too many files"), "")
		h.paste(h.writeFile(t, "beach.jpg"))

		h.drain(h.press(submitKey))

		if h.model.Current() != IntakeView {
			t.Fatalf("expected intake view, got %s", h.model.Current())
		}
		if h.model.alert != "too many files" {
			t.Errorf("expected backend message, got %q", h.model.alert)
		}
		if !h.model.canSend {
			t.Error("expected submit re-enabled for retry")
		}
		if h.model.Controller().Files().Len() != 1 {
			t.Error("expected selection preserved")
		}

		h.press(tabKey)
		if h.model.alert != "" {
			t.Errorf("expected alert cleared on next key, got %q", h.model.alert)
		}
	})

	t.Run("Start On Empty Slideshow", func(t *testing.T) {
		h := newHarness(t, nil, models.SlideshowRoute)
		if h.model.Current() != SlideshowView {
			t.Fatalf("expected slideshow view, got %s", h.model.Current())
		}
		f := h.model.Navigator().Frame()
		if !f.Empty || f.PrevEnabled || f.NextEnabled {
			t.Errorf("expected empty frame, got %+v", f)
		}
		if !strings.Contains(h.model.View(), "No slides") {
			t.Error("expected empty message")
		}
	})

	t.Run("Quit Keys", func(t *testing.T) {
		h := newHarness(t, nil, models.SlideshowRoute)
		cmd := h.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected QuitMsg")
		}
	})
}

func TestViewState(t *testing.T) {
	tc := []struct {
		state    ViewState
		expected string
	}{
		{IntakeView, "intake"},
		{SubmittingView, "submitting"},
		{SlideshowView, "slideshow"},
		{StoryView, "story"},
		{ViewState(9), "ViewState(9)"},
	}
	for _, c := range tc {
		if got := c.state.String(); got != c.expected {
			t.Errorf("expected %s, got %s", c.expected, got)
		}
	}
}
