package preview

import (
	"time"

	"github.com/golang/glog"
	"github.com/zoobzio/capitan"
)

// run is the body of every job. Everything between Acquire and release is
// undone before the job finishes: the checkpoint is rolled back and the
// verbosity restored even if the formatter fails or the job is canceled.
func (s *Session) run(job *Job) {
	start := s.clock.Now()

	release, err := s.store.Acquire(job.ctx)
	if err != nil {
		s.canceled(job, start)
		s.record(job, start)
		return
	}

	level := s.diagnostics.Level()
	cp := s.store.Checkpoint()
	defer s.settle(job, cp, level, release, start)

	s.store.Apply(DeriveOverrides(job.category))
	s.diagnostics.SetLevel(min(level, s.quietLevel))

	if job.text == "" {
		job.setOutcome(OutcomeEmpty)
		s.deliver(job, "", start)
		return
	}

	out, err := safeFormat(job.ctx, s.formatter, job.text, job.category, s.store)
	switch {
	case err == nil:
		job.setOutcome(OutcomeDelivered)
		s.deliver(job, out, start)
	case job.ctx.Err() != nil:
		s.canceled(job, start)
	default:
		s.failed(job, err, start)
	}
}

// settle undoes the job's writes, then posts the empty-display fallback.
func (s *Session) settle(job *Job, cp Checkpoint, level int, release func(), start time.Time) {
	if err := s.store.Rollback(cp); err != nil {
		s.rollbackFailed(job, err, start)
	}
	s.diagnostics.SetLevel(level)
	release()

	s.post(job, func() {
		if s.sink.CurrentText() == "" {
			s.sink.Apply(job.text)
		}
	})
	s.record(job, start)
}

// post schedules fn on the executor. fn only runs if job is still the
// most recent submit when the executor gets to it.
func (s *Session) post(job *Job, fn func()) {
	s.executor.Post(func() {
		if !s.coordinator.Current(job.generation) {
			s.stale(job)
			return
		}
		fn()
	})
}

func (s *Session) deliver(job *Job, out string, start time.Time) {
	s.post(job, func() {
		s.sink.Apply(out)
		s.delivered.Store(true)
		s.lastError.Store(nil)
		s.transition(StateHealthy)

		elapsed := s.clock.Since(start)
		capitan.Emit(s.ctx, FormatSucceeded,
			KeyJobID.Field(job.ID()),
			KeyCategory.Field(string(job.category)),
			KeyDuration.Field(elapsed),
		)
		s.metrics.OnFormatSuccess(elapsed)
	})
}

func (s *Session) failed(job *Job, err error, start time.Time) {
	job.setOutcome(OutcomeFailed)
	glog.Warningf("preview: job %s (%s) failed: %v", job.ID(), job.category, err)
	capitan.Emit(s.ctx, FormatFailed,
		KeyJobID.Field(job.ID()),
		KeyCategory.Field(string(job.category)),
		KeyStage.Field("format"),
		KeyError.Field(err.Error()),
	)

	s.post(job, func() {
		s.setError(err)
		s.transition(s.failureState())
		s.metrics.OnFormatFailure("format", s.clock.Since(start))
	})
}

func (s *Session) canceled(job *Job, start time.Time) {
	job.setOutcome(OutcomeCanceled)
	capitan.Emit(s.ctx, JobCanceled,
		KeyJobID.Field(job.ID()),
		KeyGeneration.Field(int(job.generation)), //nolint:gosec // generations stay far below MaxInt
		KeyDuration.Field(s.clock.Since(start)),
	)
}

// rollbackFailed faults the Session whatever the job's generation: the
// store has already been forced to its durable state and any later
// preview would run against settings the host did not expect.
func (s *Session) rollbackFailed(job *Job, err error, start time.Time) {
	glog.Errorf("preview: job %s could not roll back its overrides: %v", job.ID(), err)
	s.setError(err)
	s.fault()
	s.metrics.OnFormatFailure("rollback", s.clock.Since(start))
}

func (s *Session) stale(job *Job) {
	if !job.markStale() {
		return
	}
	glog.V(2).Infof("preview: dropping output of superseded job %s", job.ID())
	capitan.Emit(s.ctx, ResultStale,
		KeyJobID.Field(job.ID()),
		KeyGeneration.Field(int(job.generation)), //nolint:gosec // generations stay far below MaxInt
	)
	s.metrics.OnResultStale()
}

// record appends the job to History once every update it posted has run.
func (s *Session) record(job *Job, start time.Time) {
	s.executor.Post(func() {
		s.history.push(Record{
			ID:         job.ID(),
			Generation: job.generation,
			Category:   job.category,
			Outcome:    job.Outcome(),
			Duration:   s.clock.Since(start),
		})
	})
}
