package preview

import "github.com/zoobzio/capitan"

// Field keys for preview events.
var (
	// KeyState is the current state of the Session.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyJobID is the ULID of the job the event refers to.
	KeyJobID = capitan.NewStringKey("job_id")

	// KeyGeneration is the coordinator generation of the job.
	KeyGeneration = capitan.NewIntKey("generation")

	// KeyCategory is the settings category that triggered the request.
	KeyCategory = capitan.NewStringKey("category")

	// KeyStage is where a failure happened: "format" or "rollback".
	KeyStage = capitan.NewStringKey("stage")

	// KeyDuration is how long the job ran before the event.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyJoinTimeout is the configured bound on waiting for a superseded job.
	KeyJoinTimeout = capitan.NewDurationKey("join_timeout")

	// KeyDebounce is the configured debounce duration for followed sources.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyCheckpoint is the id of the checkpoint involved in a rollback.
	KeyCheckpoint = capitan.NewIntKey("checkpoint")

	// KeySize is the length in bytes of source text received.
	KeySize = capitan.NewIntKey("size")
)
