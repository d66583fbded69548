// package intake holds the user's current file selection and the drop-area state
package intake

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photoyarn/internal/formatter"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/shared"
)

// Policy is an extension allow-list. The zero Policy accepts every file.
type Policy struct {
	allowed map[string]struct{}
}

// NewPolicy builds a [Policy] from extensions such as "zip", ".JPG" or "jpeg".
func NewPolicy(exts ...string) Policy {
	p := Policy{allowed: make(map[string]struct{}, len(exts))}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimLeft(strings.TrimSpace(ext), "."))
		if ext != "" {
			p.allowed[ext] = struct{}{}
		}
	}
	return p
}

// Accepts reports whether ext (lowercase, no dot) passes the policy.
func (p Policy) Accepts(ext string) bool {
	if len(p.allowed) == 0 {
		return true
	}
	_, ok := p.allowed[ext]
	return ok
}

// DragKind is a drag-and-drop event type.
type DragKind int

const (
	DragEnter DragKind = iota
	DragOver
	DragLeave
	Drop
)

// DropTarget is the surface a drag event landed on.
type DropTarget int

const (
	DropArea DropTarget = iota
	PageBody
)

// Intake is the file selection surface.
type Intake struct {
	policy      Policy
	files       models.FileSet
	highlighted bool
	logger      *log.Logger
}

// New creates an empty [Intake] filtered by policy.
func New(policy Policy, logger *log.Logger) *Intake {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Intake{policy: policy, logger: logger}
}

// SelectFiles replaces the held selection with the accepted subset of raw.
//
// Rejected files are dropped silently. Duplicate names keep their first occurrence.
func (in *Intake) SelectFiles(raw []models.RawFile) models.FileSet {
	seen := make(map[string]struct{}, len(raw))
	selected := make(models.FileSet, 0, len(raw))

	for _, r := range raw {
		f := models.NewSelectedFile(r)
		if !in.policy.Accepts(f.Extension) {
			in.logger.Debug("file skipped", "name", f.Name, "err", shared.ErrValidationRejected)
			continue
		}
		if _, dup := seen[f.Name]; dup {
			continue
		}
		seen[f.Name] = struct{}{}
		selected = append(selected, f)
	}

	in.files = selected
	in.logger.Debug("selection replaced", "files", len(selected), "offered", len(raw))
	return in.Files()
}

// HandleDrag applies a drag event and reports whether the default open action is suppressed, which is always.
func (in *Intake) HandleDrag(kind DragKind, target DropTarget, files []models.RawFile) bool {
	if target != DropArea {
		return true
	}

	switch kind {
	case DragEnter, DragOver:
		in.highlighted = true
	case DragLeave:
		in.highlighted = false
	case Drop:
		in.highlighted = false
		in.SelectFiles(files)
	}
	return true
}

// Files returns a copy of the current selection.
func (in *Intake) Files() models.FileSet {
	out := make(models.FileSet, len(in.files))
	copy(out, in.files)
	return out
}

// Empty reports whether nothing is selected.
func (in *Intake) Empty() bool { return in.files.Empty() }

// SubmitEnabled reports whether the submit affordance should be enabled.
func (in *Intake) SubmitEnabled() bool { return !in.files.Empty() }

// ListingVisible reports whether the file listing should be shown.
func (in *Intake) ListingVisible() bool { return !in.files.Empty() }

// Listing renders the selection as "name (size)" lines.
func (in *Intake) Listing() []string { return formatter.FileListing(in.files) }

// Highlighted reports whether the drop area is highlighted.
func (in *Intake) Highlighted() bool { return in.highlighted }

// Reset clears the selection and the highlight.
func (in *Intake) Reset() {
	in.files = nil
	in.highlighted = false
}

// RawFilesFromPaths stats each path, skipping directories and entries that cannot be read.
func RawFilesFromPaths(paths []string) []models.RawFile {
	raw := make([]models.RawFile, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		raw = append(raw, models.RawFile{Name: filepath.Base(p), Path: p, SizeBytes: info.Size()})
	}
	return raw
}

// RawFilesFromText parses pasted or dropped terminal text into raw files.
func RawFilesFromText(text string) []models.RawFile {
	return RawFilesFromPaths(shared.ParseDroppedPaths(text))
}
