package models

import (
	"path/filepath"
	"strings"
)

// RawFile is one user-provided candidate file, before extension validation.
type RawFile struct {
	Name      string
	Path      string
	SizeBytes int64
}

// SelectedFile is one validated input file held by the intake surface.
type SelectedFile struct {
	Name      string
	SizeBytes int64
	Extension string // lowercase, without the leading dot
	Path      string
}

// NewSelectedFile derives a [SelectedFile] from a [RawFile].
func NewSelectedFile(raw RawFile) SelectedFile {
	size := raw.SizeBytes
	if size < 0 {
		size = 0
	}
	return SelectedFile{
		Name:      raw.Name,
		SizeBytes: size,
		Extension: ExtensionOf(raw.Name),
		Path:      raw.Path,
	}
}

// ExtensionOf returns the lowercased text after the last dot in name, or "" when there is none.
func ExtensionOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FileSet is an ordered selection of files, unique by name.
type FileSet []SelectedFile

// Len returns the number of files.
func (fs FileSet) Len() int { return len(fs) }

// Empty reports whether the set holds no files.
func (fs FileSet) Empty() bool { return len(fs) == 0 }

// Names returns file names in order.
func (fs FileSet) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// TotalBytes sums the size of every file.
func (fs FileSet) TotalBytes() int64 {
	var total int64
	for _, f := range fs {
		total += f.SizeBytes
	}
	return total
}
