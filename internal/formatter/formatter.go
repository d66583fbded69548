// package formatter renders file sizes and exports slide sequences to Markdown and plain text
package formatter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/desertthunder/photoyarn/internal/models"
)

var sizeUnits = [...]string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count with 1024-based units and two decimals, e.g. "2.00 KB".
//
// Zero renders as "0 Bytes"; values past the GB range stay in GB.
func FormatSize(b int64) string {
	if b <= 0 {
		return "0 Bytes"
	}

	value := float64(b)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}

// FileListing renders one "name (size)" line per selected file.
func FileListing(files models.FileSet) []string {
	lines := make([]string, len(files))
	for i, f := range files {
		lines[i] = fmt.Sprintf("%s (%s)", f.Name, FormatSize(f.SizeBytes))
	}
	return lines
}

// Counter renders the human-readable position of a slide, e.g. "2 of 5".
func Counter(index, length int) string {
	if length == 0 {
		return "0 of 0"
	}
	return fmt.Sprintf("%d of %d", index+1, length)
}

// ExportToMarkdown converts slides to Markdown.
//
// images[i], when non-empty, is a local file name used instead of the slide's remote image URL.
func ExportToMarkdown(title string, slides models.SlideSequence, images []string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Story"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Slides**: %d\n\n", len(slides))

	for i, slide := range slides {
		src := slide.ImageURL
		if i < len(images) && images[i] != "" {
			src = images[i]
		}
		fmt.Fprintf(&buf, "## %s\n\n", Counter(i, len(slides)))
		if src != "" {
			fmt.Fprintf(&buf, "![Slide %d](%s)\n\n", i+1, src)
		}
		fmt.Fprintf(&buf, "%s\n\n", slide.StorySegment)
	}

	return buf.Bytes(), nil
}

// ExportToText converts slides to plain text, one numbered block per slide.
func ExportToText(slides models.SlideSequence) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Slides: %d\n", len(slides))
	for i, slide := range slides {
		fmt.Fprintf(&buf, "\n[%s] %s\n%s\n", Counter(i, len(slides)), slide.ImageURL, slide.StorySegment)
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes.
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteMarkdownExport writes {dir}/story.md, linking local image files where images[i] is set.
func WriteMarkdownExport(dir, title string, slides models.SlideSequence, images []string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := ExportToMarkdown(title, slides, images)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	path := filepath.Join(dir, "story.md")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return path, nil
}

// WriteTextExport writes {dir}/story.txt.
func WriteTextExport(dir string, slides models.SlideSequence) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := ExportToText(slides)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	path := filepath.Join(dir, "story.txt")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}
