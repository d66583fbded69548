package models

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/desertthunder/photoyarn/internal/shared"
)

func TestFiles(t *testing.T) {
	t.Run("ExtensionOf", func(t *testing.T) {
		tc := []struct {
			name string
			want string
		}{
			{"report.JPG", "jpg"},
			{"notes.tar.zip", "zip"},
			{"README", ""},
			{".zip", ""},
			{"trailing.", ""},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := ExtensionOf(tt.name); got != tt.want {
					t.Errorf("ExtensionOf(%q) = %q, want %q", tt.name, got, tt.want)
				}
			})
		}
	})

	t.Run("NewSelectedFile", func(t *testing.T) {
		f := NewSelectedFile(RawFile{Name: "Beach.JPEG", Path: "/tmp/Beach.JPEG", SizeBytes: -5})
		if f.Extension != "jpeg" {
			t.Errorf("expected extension jpeg, got %s", f.Extension)
		}
		if f.SizeBytes != 0 {
			t.Errorf("expected negative size clamped to 0, got %d", f.SizeBytes)
		}
	})

	t.Run("FileSet", func(t *testing.T) {
		fs := FileSet{{Name: "a.jpg", SizeBytes: 10}, {Name: "b.zip", SizeBytes: 5}}
		if fs.Empty() || fs.Len() != 2 {
			t.Errorf("expected two files, got %d", fs.Len())
		}
		if !reflect.DeepEqual(fs.Names(), []string{"a.jpg", "b.zip"}) {
			t.Errorf("unexpected names %v", fs.Names())
		}
		if fs.TotalBytes() != 15 {
			t.Errorf("expected 15 total bytes, got %d", fs.TotalBytes())
		}
		if !(FileSet{}).Empty() {
			t.Error("expected empty file set")
		}
	})
}

func TestUploadOptions(t *testing.T) {
	t.Run("Absent Fields Are Omitted", func(t *testing.T) {
		if got := (UploadOptions{}).Fields(); len(got) != 0 {
			t.Errorf("expected no fields, got %v", got)
		}
	})

	t.Run("Present Fields In Order", func(t *testing.T) {
		opts := UploadOptions{StoryPrompt: "a heist", MaxWords: 80, MaxBeats: 6, APIKey: "k"}
		want := []OptionValue{
			{FieldStoryPrompt, "a heist"},
			{FieldMaxWords, "80"},
			{FieldMaxBeats, "6"},
			{FieldAPIKey, "k"},
		}
		if got := opts.Fields(); !reflect.DeepEqual(got, want) {
			t.Errorf("Fields() = %v, want %v", got, want)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (UploadOptions{MaxWords: 10}).Validate(); err != nil {
			t.Errorf("expected valid options, got %v", err)
		}
		if err := (UploadOptions{MaxBeats: -1}).Validate(); !errors.Is(err, shared.ErrInvalidOption) {
			t.Errorf("expected ErrInvalidOption, got %v", err)
		}
	})

	t.Run("UploadState String", func(t *testing.T) {
		if Submitting.String() != "Submitting" || Failed.String() != "Failed" {
			t.Error("unexpected state names")
		}
	})
}

func TestRoutes(t *testing.T) {
	r := StoryRoute("a b/c")
	if r != "/story/a%20b%2Fc" {
		t.Errorf("unexpected story route %s", r)
	}

	id, ok := r.StoryID()
	if !ok || id != "a b/c" {
		t.Errorf("expected round-tripped id, got %q (%v)", id, ok)
	}

	if _, ok := SlideshowRoute.StoryID(); ok {
		t.Error("slideshow route should not carry a story id")
	}
}

func TestSessionEntry(t *testing.T) {
	e := NewSessionEntry(0, "tab", "storyData", "{}", time.Hour)
	if err := e.Validate(); err != nil {
		t.Fatalf("expected valid entry, got %v", err)
	}
	if e.Expired(time.Now()) {
		t.Error("fresh entry should not be expired")
	}
	if !e.Expired(time.Now().Add(2 * time.Hour)) {
		t.Error("entry should be expired after its ttl")
	}

	if err := NewSessionEntry(0, "", "k", "v", time.Hour).Validate(); err == nil {
		t.Error("expected error for missing session id")
	}
	if err := NewSessionEntry(0, "tab", "k", "v", 0).Validate(); err == nil {
		t.Error("expected error for zero ttl")
	}
}
