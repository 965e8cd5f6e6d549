// Package tasks runs littlescreen's background and batch work.
//
// # Notification dispatcher
//
// [Dispatcher] is a generic bounded queue drained by a fixed worker pool. The server uses one to send
// check-in e-mails outside the request that triggered them:
//   - [Dispatcher.Enqueue] never blocks; a full queue drops the job and counts it in [Stats]
//   - job starts are paced by a shared golang.org/x/time/rate limiter
//   - handlers run on the dispatcher's own context, so they outlive the request
//   - [Dispatcher.Close] stops intake and drains the queue, cancelling handlers when its deadline passes
//
// # Bulk screening
//
// [BulkScreen] classifies many titles through a [Screener] with the same worker pool and limiter
// pattern, reporting each verdict as a [ProgressUpdate]. Updates use select with default so a slow
// reader never stalls the run.
package tasks
