package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/photoyarn/internal/formatter"
	"github.com/desertthunder/photoyarn/internal/models"
)

var _ list.Item = fileItem{}

// fileItem wraps [models.SelectedFile] to implement [list.Item].
type fileItem struct {
	file models.SelectedFile
}

func (i fileItem) FilterValue() string { return i.file.Name }
func (i fileItem) Title() string       { return i.file.Name }
func (i fileItem) Description() string { return formatter.FormatSize(i.file.SizeBytes) }

func fileItems(files models.FileSet) []list.Item {
	items := make([]list.Item, len(files))
	for i, f := range files {
		items[i] = fileItem{file: f}
	}
	return items
}

func newFileList(width, height int) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Selected files"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return l
}
