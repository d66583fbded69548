// Package upload implements the session controller that owns the single in-flight submission.
//
// # States
//
// A [Controller] moves through [models.UploadState]:
//
//	Idle --Begin--> Submitting --Resolve--> Succeeded
//	                    |
//	                    +----Resolve----> Failed --Begin--> Submitting
//
// [Controller.Begin] is the only way into Submitting and refuses while a request is outstanding,
// so at most one upload runs at a time. [Attempt.Run] performs the request without holding any lock,
// and [Controller.Resolve] is the single resumption point that applies the result.
//
// # Presentation
//
// The controller never renders. It drives a [Presenter] that toggles the submit affordance,
// the progress indicator and the intake surface, raises alerts, and redirects on success.
// Presenter methods are called with the controller's lock held and must not call back into it.
//
// # Failures
//
// No upload error escapes as a panic or a lost result: transport failures, backend rejections,
// malformed payloads and storage write failures all land in Failed with an alert,
// and the file selection is kept so the user can retry.
package upload
