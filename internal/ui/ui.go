package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/photoyarn/internal/intake"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/services"
	"github.com/desertthunder/photoyarn/internal/shared"
	"github.com/desertthunder/photoyarn/internal/slideshow"
	"github.com/desertthunder/photoyarn/internal/upload"
)

var (
	_ tea.Model         = (*Model)(nil)
	_ upload.Presenter  = (*Model)(nil)
	_ models.Redirector = (*Model)(nil)
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	IntakeView ViewState = iota
	SubmittingView
	SlideshowView
	StoryView
)

func (v ViewState) String() string {
	switch v {
	case IntakeView:
		return "intake"
	case SubmittingView:
		return "submitting"
	case SlideshowView:
		return "slideshow"
	case StoryView:
		return "story"
	default:
		return fmt.Sprintf("ViewState(%d)", int(v))
	}
}

// Input field indexes on the intake view.
const (
	fieldPaths = iota
	fieldPrompt
	fieldMaxWords
	fieldMaxBeats
	fieldAPIKey
	fieldCount
)

var fieldLabels = [fieldCount]string{"Files", "Story prompt", "Max words", "Max beats", "API key"}

// Deps contains the collaborators of the TUI.
type Deps struct {
	Uploader    services.Uploader
	Storage     models.Storage
	Policy      intake.Policy
	StorageKey  string
	BaseURL     string
	Logger      *log.Logger
	OpenBrowser func(url string) error
	Start       models.Route // Initial route, defaults to the intake view
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	deps     Deps
	view     ViewState
	ctrl     *upload.Controller
	inputs   []textinput.Model
	focus    int
	files    list.Model
	spinner  spinner.Model
	nav      *slideshow.Navigator
	storyURL string
	alert    string
	notice   string
	canSend  bool
	width    int
	height   int
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(nil)
	}
	if deps.StorageKey == "" {
		deps.StorageKey = upload.DefaultStorageKey
	}
	if deps.OpenBrowser == nil {
		deps.OpenBrowser = shared.OpenBrowser
	}

	m := &Model{
		ctx:     ctx,
		deps:    deps,
		files:   newFileList(60, 10),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.inputs = newInputs()
	m.resetIntake()

	if deps.Start != "" && deps.Start != models.IntakeRoute {
		m.Redirect(deps.Start)
	}
	return m
}

func newInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-13s ", fieldLabels[i]+":")
		inputs[i] = ti
	}

	inputs[fieldPaths].Placeholder = "drop files here or type paths and press enter"
	inputs[fieldPrompt].Placeholder = "optional"
	inputs[fieldMaxWords].Placeholder = "optional"
	inputs[fieldMaxWords].CharLimit = 6
	inputs[fieldMaxBeats].Placeholder = "optional"
	inputs[fieldMaxBeats].CharLimit = 4
	inputs[fieldAPIKey].Placeholder = "optional"
	inputs[fieldAPIKey].EchoMode = textinput.EchoPassword
	inputs[fieldAPIKey].EchoCharacter = '•'

	inputs[fieldPaths].Focus()
	return inputs
}

// resetIntake builds a fresh controller, which is the intake equivalent of a page load.
func (m *Model) resetIntake() {
	m.nav = nil
	m.storyURL = ""
	m.alert = ""
	m.ctrl = upload.New(upload.Opts{
		Intake:     intake.New(m.deps.Policy, m.deps.Logger),
		Uploader:   m.deps.Uploader,
		Storage:    m.deps.Storage,
		Presenter:  m,
		Logger:     m.deps.Logger,
		StorageKey: m.deps.StorageKey,
	})
	m.refreshFiles()
}

// View returns the active view.
func (m *Model) View() string {
	switch m.view {
	case IntakeView:
		return m.renderIntake()
	case SubmittingView:
		return m.renderSubmitting()
	case SlideshowView:
		return m.renderSlideshow()
	case StoryView:
		return m.renderStory()
	default:
		return ""
	}
}

// Current returns the active view state.
func (m *Model) Current() ViewState { return m.view }

// Controller returns the upload controller backing the intake view.
func (m *Model) Controller() *upload.Controller { return m.ctrl }

// Navigator returns the slideshow navigator, or nil outside the slideshow.
func (m *Model) Navigator() *slideshow.Navigator { return m.nav }

func (m *Model) SetSubmitEnabled(enabled bool) { m.canSend = enabled }

func (m *Model) SetProgressVisible(visible bool) {
	if visible {
		m.view = SubmittingView
	}
}

func (m *Model) SetIntakeVisible(visible bool) {
	if visible {
		m.view = IntakeView
	}
}

func (m *Model) Alert(message string) { m.alert = message }

// Redirect switches views for a route.
func (m *Model) Redirect(route models.Route) {
	m.deps.Logger.Debug("redirect", "route", route)

	switch {
	case route == models.IntakeRoute:
		m.resetIntake()
		m.view = IntakeView
	case route == models.SlideshowRoute:
		m.nav = slideshow.Load(m.deps.Storage, m.deps.StorageKey, m, m.deps.Logger)
		m.view = SlideshowView
	default:
		if _, ok := route.StoryID(); !ok {
			m.deps.Logger.Warn("unknown route", "route", route)
			return
		}
		m.storyURL = shared.JoinURL(m.deps.BaseURL, route.String())
		m.view = StoryView
	}
}

// Init starts the cursor blink, and opens the story page when starting on one.
func (m *Model) Init() tea.Cmd {
	if m.view == StoryView {
		return tea.Batch(textinput.Blink, m.openStory())
	}
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.files.SetSize(max(msg.Width-4, 20), max(msg.Height/3, 6))
		return m, nil

	case uploadResolvedMsg:
		m.ctrl.Resolve(msg.result)
		m.refreshFiles()
		if m.view == StoryView {
			return m, m.openStory()
		}
		return m, nil

	case browserOpenedMsg:
		if msg.err != nil {
			m.deps.Logger.Warn("failed to open story page", "url", msg.url, "err", msg.err)
			m.notice = fmt.Sprintf("Open %s in your browser", msg.url)
		} else {
			m.notice = "Opened in your browser"
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != SubmittingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case IntakeView:
			return m.handleIntakeKeys(msg)
		case SubmittingView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case SlideshowView:
			return m.handleSlideshowKeys(msg)
		case StoryView:
			return m.handleStoryKeys(msg)
		}
	}

	if m.view == IntakeView {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m *Model) handleIntakeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.alert = ""

	if msg.Paste && m.focus == fieldPaths {
		m.dropText(string(msg.Runes))
		return m, nil
	}

	switch {
	case msg.String() == "ctrl+c" || key.Matches(msg, m.keys.back):
		return m, tea.Quit
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.focus):
		step := 1
		if msg.String() == "shift+tab" {
			step = fieldCount - 1
		}
		return m, m.setFocus((m.focus + step) % fieldCount)
	case key.Matches(msg, m.keys.add) && m.focus == fieldPaths:
		text := m.inputs[fieldPaths].Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.ctrl.SelectFiles(intake.RawFilesFromText(text))
		m.inputs[fieldPaths].SetValue("")
		m.refreshFiles()
		return m, nil
	case key.Matches(msg, m.keys.add):
		return m, m.setFocus((m.focus + 1) % fieldCount)
	}

	return m.updateInputs(msg)
}

// dropText handles pasted terminal text as files dropped onto the drop area.
func (m *Model) dropText(text string) {
	raw := intake.RawFilesFromText(text)
	m.ctrl.HandleDrag(intake.DragEnter, intake.DropArea, nil)
	m.ctrl.HandleDrag(intake.Drop, intake.DropArea, raw)
	m.refreshFiles()
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) refreshFiles() {
	m.files.SetItems(fileItems(m.ctrl.Files()))
}

// parseOptions reads the optional fields. Blank fields are absent.
func (m *Model) parseOptions() (models.UploadOptions, error) {
	opts := models.UploadOptions{
		StoryPrompt: strings.TrimSpace(m.inputs[fieldPrompt].Value()),
		APIKey:      strings.TrimSpace(m.inputs[fieldAPIKey].Value()),
	}

	for _, f := range []struct {
		field int
		dst   *int
	}{
		{fieldMaxWords, &opts.MaxWords},
		{fieldMaxBeats, &opts.MaxBeats},
	} {
		raw := strings.TrimSpace(m.inputs[f.field].Value())
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("%w: %s must be a positive whole number", shared.ErrInvalidOption, strings.ToLower(fieldLabels[f.field]))
		}
		*f.dst = n
	}

	return opts, opts.Validate()
}

// submit begins an attempt and runs it off the event loop.
func (m *Model) submit() tea.Cmd {
	opts, err := m.parseOptions()
	if err != nil {
		m.alert = err.Error()
		return nil
	}
	m.ctrl.SetOptions(opts)

	attempt, ok := m.ctrl.Begin()
	if !ok {
		return nil
	}

	ctx := m.ctx
	run := func() tea.Msg {
		return uploadResolvedMsg{result: attempt.Run(ctx)}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) openStory() tea.Cmd {
	url := m.storyURL
	open := m.deps.OpenBrowser
	return func() tea.Msg {
		return browserOpenedMsg{url: url, err: open(url)}
	}
}

func (m *Model) handleSlideshowKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.prev):
		m.nav.Prev()
	case key.Matches(msg, m.keys.next):
		m.nav.Next()
	case key.Matches(msg, m.keys.restart):
		if err := m.nav.Restart(); err != nil {
			m.alert = err.Error()
		}
	}
	return m, nil
}

func (m *Model) handleStoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.Redirect(models.IntakeRoute)
	}
	return m, nil
}

func (m *Model) renderIntake() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("photoyarn"))
	b.WriteString("\n")

	box := styles.dropArea
	if m.ctrl.Highlighted() {
		box = styles.dropHover
	}
	b.WriteString(box.Render(m.inputs[fieldPaths].View()))
	b.WriteString("\n\n")

	for i := fieldPrompt; i < fieldCount; i++ {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if len(m.files.Items()) > 0 {
		b.WriteString("\n")
		b.WriteString(m.files.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.canSend {
		b.WriteString(styles.ok.Render("[ Submit ]"))
	} else {
		b.WriteString(styles.disabled.Render("[ Submit ]"))
	}

	if m.alert != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.err.Render(m.alert))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.add, m.keys.focus, m.keys.submit, m.keys.back}))
	return b.String()
}

func (m *Model) renderSubmitting() string {
	n := m.ctrl.Files().Len()
	noun := "files"
	if n == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%s\n\n%s Uploading %d %s...\n\n%s",
		styles.title.Render("photoyarn"), m.spinner.View(), n, noun, styles.help.Render("ctrl+c to quit"))
}

func (m *Model) renderSlideshow() string {
	f := m.nav.Frame()

	var b strings.Builder
	b.WriteString(styles.title.Render("Slideshow " + f.Counter))
	b.WriteString("\n")

	if f.Empty {
		b.WriteString(styles.warn.Render("No slides for this session."))
	} else {
		b.WriteString(styles.help.Render(f.ImageURL))
		b.WriteString("\n\n")
		b.WriteString(f.Text)
	}

	prev, next := styles.disabled.Render("◀ prev"), styles.disabled.Render("next ▶")
	if f.PrevEnabled {
		prev = styles.ok.Render("◀ prev")
	}
	if f.NextEnabled {
		next = styles.ok.Render("next ▶")
	}
	b.WriteString(fmt.Sprintf("\n\n%s   %s", prev, next))

	if m.alert != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.err.Render(m.alert))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.prev, m.keys.next, m.keys.restart, m.keys.quit}))
	return b.String()
}

func (m *Model) renderStory() string {
	title := styles.ok.Render("✓ Story ready")
	info := fmt.Sprintf("\n%s", m.storyURL)
	if m.notice != "" {
		info += "\n" + styles.help.Render(m.notice)
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
