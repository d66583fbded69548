// Package models defines domain entities and persistence interfaces for the photoyarn story client.
//
// The package contains three categories of types:
//
// 1. Intake and upload values, ephemeral and held only while a screen is alive
//   - [RawFile] : A candidate file chosen by the user, before validation
//   - [SelectedFile] / [FileSet] : Validated files ready for submission
//   - [UploadOptions] : Optional scalar fields sent with the files
//   - [UploadState] / [Outcome] : Upload lifecycle and its tagged result
//
// 2. Presentation values, received once from the backend and never mutated
//   - [Slide] / [SlideSequence] : Image + text presentation units
//   - [StoryPayload] : The backend's JSON body, persisted verbatim to session storage
//
// 3. Persistent entities
//   - [SessionEntry] : One key/value pair in a session-scoped store
//
// [Storage] and [Redirector] are the two boundaries shared by the upload controller and the slideshow navigator.
package models
