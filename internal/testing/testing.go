// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/photoyarn/internal/models"
)

// MockUploader is a test double for [services.Uploader]
type MockUploader struct {
	mu      sync.Mutex
	Outcome *models.Outcome
	Err     error
	Calls   int
	Files   models.FileSet
	Options models.UploadOptions
	// Block, when set, is received from before returning so tests can observe the Submitting state.
	Block chan struct{}
}

func (m *MockUploader) Upload(ctx context.Context, files models.FileSet, opts models.UploadOptions) (*models.Outcome, error) {
	m.mu.Lock()
	m.Calls++
	m.Files = files
	m.Options = opts
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.Outcome, m.Err
}

// CallCount returns the number of Upload calls so far.
func (m *MockUploader) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// RecordingRedirector records every route it is asked to visit
type RecordingRedirector struct {
	Routes []models.Route
}

func (r *RecordingRedirector) Redirect(route models.Route) {
	r.Routes = append(r.Routes, route)
}

// Last returns the most recent route, or "" when none was recorded.
func (r *RecordingRedirector) Last() models.Route {
	if len(r.Routes) == 0 {
		return ""
	}
	return r.Routes[len(r.Routes)-1]
}

// RecordingPresenter records the affordance state last pushed by a controller
type RecordingPresenter struct {
	RecordingRedirector
	SubmitEnabled   bool
	ProgressVisible bool
	IntakeVisible   bool
	Alerts          []string
}

func (p *RecordingPresenter) SetSubmitEnabled(enabled bool)   { p.SubmitEnabled = enabled }
func (p *RecordingPresenter) SetProgressVisible(visible bool) { p.ProgressVisible = visible }
func (p *RecordingPresenter) SetIntakeVisible(visible bool)   { p.IntakeVisible = visible }
func (p *RecordingPresenter) Alert(message string)            { p.Alerts = append(p.Alerts, message) }

// LastAlert returns the most recent alert, or "" when none was raised.
func (p *RecordingPresenter) LastAlert() string {
	if len(p.Alerts) == 0 {
		return ""
	}
	return p.Alerts[len(p.Alerts)-1]
}

// FailingStorage is a [models.Storage] whose writes always fail
type FailingStorage struct{}

func (FailingStorage) Get(string) (string, bool, error) { return "", false, errors.New("read failed") }
func (FailingStorage) Set(string, string) error         { return errors.New("write failed") }
func (FailingStorage) Remove(string) error              { return errors.New("write failed") }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
