package preview

import "github.com/zoobzio/capitan"

// Session lifecycle signals.
var (
	// SessionStarted is emitted when a Session begins accepting requests.
	SessionStarted = capitan.NewSignal(
		"preview.session.started",
		"Preview session started",
	)

	// SessionStopped is emitted when the Session's context ends.
	SessionStopped = capitan.NewSignal(
		"preview.session.stopped",
		"Preview session stopped",
	)

	// SessionStateChanged is emitted when a Session transitions between states.
	SessionStateChanged = capitan.NewSignal(
		"preview.state.changed",
		"Preview session state transition",
	)
)

// Job signals.
var (
	// JobSubmitted is emitted when a new job becomes the active job.
	JobSubmitted = capitan.NewSignal(
		"preview.job.submitted",
		"Preview job submitted",
	)

	// JobSuperseded is emitted when an active job is canceled by a newer request.
	JobSuperseded = capitan.NewSignal(
		"preview.job.superseded",
		"Preview job superseded by a newer request",
	)

	// JobJoinTimedOut is emitted when a superseded job did not finish within
	// the join timeout and was abandoned.
	JobJoinTimedOut = capitan.NewSignal(
		"preview.job.join.timeout",
		"Superseded job still running after join timeout",
	)

	// JobCanceled is emitted when a job observed its cancellation.
	JobCanceled = capitan.NewSignal(
		"preview.job.canceled",
		"Preview job canceled",
	)
)

// Result signals.
var (
	// FormatSucceeded is emitted when formatted output reaches the sink.
	FormatSucceeded = capitan.NewSignal(
		"preview.format.succeeded",
		"Formatted preview applied",
	)

	// FormatFailed is emitted when the formatter returns an error or panics.
	FormatFailed = capitan.NewSignal(
		"preview.format.failed",
		"Formatter failed",
	)

	// ResultStale is emitted when a job's output arrives after a newer job
	// was submitted and is dropped.
	ResultStale = capitan.NewSignal(
		"preview.result.stale",
		"Stale preview result discarded",
	)
)

// Store and source signals.
var (
	// StoreRollbackFailed is emitted when a checkpoint cannot be rolled back.
	StoreRollbackFailed = capitan.NewSignal(
		"preview.store.rollback.failed",
		"Settings rollback failed, durable state restored",
	)

	// SourceChanged is emitted when a followed source delivers new text.
	SourceChanged = capitan.NewSignal(
		"preview.source.changed",
		"Followed source changed",
	)
)
