package preview

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key session events.
type MetricsProvider interface {
	// OnStateChange is called when the session transitions between states.
	OnStateChange(from, to State)

	// OnJobSubmitted is called each time a request starts a new job.
	OnJobSubmitted()

	// OnJobSuperseded is called when an active job is replaced. joined is
	// false if the old job was still running after the join timeout.
	OnJobSuperseded(joined bool)

	// OnFormatSuccess is called when formatted output reaches the sink.
	// Duration covers the job from start to apply.
	OnFormatSuccess(duration time.Duration)

	// OnFormatFailure is called when a job fails. Stage is "format" or "rollback".
	OnFormatFailure(stage string, duration time.Duration)

	// OnResultStale is called when a superseded job's output is dropped.
	OnResultStale()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                  {}
func (NoOpMetricsProvider) OnJobSubmitted()                           {}
func (NoOpMetricsProvider) OnJobSuperseded(_ bool)                    {}
func (NoOpMetricsProvider) OnFormatSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnFormatFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnResultStale()                            {}
