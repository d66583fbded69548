// Package services implements the transport between the client and the story generation backend.
//
// # Uploader
//
// [UploadService] is the only [Uploader]. It posts one multipart/form-data request per submission:
// one file part per selected file under [FieldNames.Files], followed by one text part for each option
// that is present. Integer options are encoded in decimal.
//
// The request body is streamed through an [io.Pipe], so file bytes are never buffered in memory.
//
// # Responses
//
// [ParseStoryPayload] decodes the backend JSON into a tagged [models.Outcome]:
//   - success with story_id : [models.OutcomeStory]
//   - success with slides : [models.OutcomeSlides], carrying the raw body so it can be stored verbatim
//   - success false, or an error message : [models.OutcomeFailure]
//
// Everything else is an error:
//   - [shared.ErrTransportFailure] : the request failed, or a non-2xx status came back without a JSON error
//   - [shared.ErrMalformedPayload] : the body is not JSON, or carries both or neither of story_id and slides
package services
