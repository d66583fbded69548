// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks the story workflow across four views:
//  1. [IntakeView] : Select files by pasting or typing paths and set the optional story parameters
//  2. [SubmittingView] : Spinner while the single upload request is in flight
//  3. [SlideshowView] : Step through the slides stored for the session
//  4. [StoryView] : Link to a story the backend stored on its side
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// It is also the [upload.Presenter] and [models.Redirector]: the upload controller toggles its affordances and
// redirects switch views. A redirect to the slideshow builds a fresh [slideshow.Navigator] from storage.
//
// Terminals deliver dropped files as a bracketed paste of their paths, so a paste into the path field is handled
// as a drag-enter followed by a drop on the drop area.
//
// The upload runs in a [tea.Cmd]; its result comes back as a message and is resolved inside Update,
// which keeps every state transition on the event loop.
package ui
