// Package tasks exports a slide sequence to disk with real-time progress reporting.
//
// # Export
//
// [ExportEngine.Export] downloads every slide image and writes story.md or story.txt next to them:
//   - images are fetched concurrently, bounded by [ExportOpts.Concurrency] via errgroup
//   - requests are paced by a token bucket ([rate.Limiter]) at [ExportOpts.RatePerSecond]
//   - relative image URLs are resolved against [ExportOpts.BaseURL]
//   - a failed download is recorded in [ImageResult.Error] and the export links the remote URL instead
//
// Only cancellation of the context aborts an export.
//
// # Progress Reporting
//
// Updates are sent on a caller-provided channel using select with default, so a slow or absent
// reader never blocks the downloads. A nil channel disables reporting.
package tasks
