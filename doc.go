// Package preview keeps a live, formatted preview in step with a settings
// editor.
//
// The core type is Session. Every settings change calls Request with the
// sample source and the category being edited. The Session supersedes any
// recomputation in flight, layers category overrides onto the shared Store
// for the duration of one Formatter call and rolls them back afterwards,
// whether the call succeeded, failed or was canceled.
//
//	Request → Coordinator → Job: Acquire → Checkpoint → Overrides → Format → Rollback
//	                                                         ↓
//	                                         Executor → (still current?) → Sink
//
// # Superseding
//
// The Coordinator keeps one job active. A new request cancels the active
// job's context and waits for it up to the join timeout (50ms by default),
// then starts regardless. Cancellation is cooperative, so a Formatter that
// ignores its context keeps running. Each submit increments a generation
// and output is only applied if its job's generation is still the latest
// when the display update runs, so a late result never overwrites a newer
// one. The store's exclusive section keeps overlapping jobs from
// interleaving their checkpoints.
//
// # Store
//
// Store holds explicit values over registered defaults. Typed access goes
// through Key:
//
//	var IndentSize = preview.NewKey("indent.size", 4)
//
//	preview.Put(store, IndentSize, 2)
//	n := preview.Get(store, IndentSize)
//
// Checkpoint and Rollback undo every write in between. A rollback that
// cannot be honored forces the store back to its last Commit and faults
// the Session.
//
// # State Machine
//
// Session maintains one of five states:
//
//   - Loading: nothing delivered yet
//   - Healthy: the latest preview was delivered
//   - Degraded: the latest preview failed, the previous one is still shown
//   - Empty: formatting failed and nothing was ever delivered
//   - Faulted: a rollback failed; requests are rejected until Reset
//
// # Observability
//
// Lifecycle events are emitted as capitan signals (see signals.go), logs go
// through glog, and a MetricsProvider receives counters and durations.
//
// # Example
//
//	store := preview.NewStore()
//	display := preview.NewDisplay()
//	session := preview.New(store, formatter, display)
//
//	if err := session.Start(ctx); err != nil {
//	    return err
//	}
//	session.Request("class A {}", preview.CategoryGeneral)
//	session.SwitchCategory(preview.CategoryJavadoc)
package preview
