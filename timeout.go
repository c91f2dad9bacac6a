package preview

import (
	"context"
	"time"
)

// WithTimeout bounds each call to f by d.
//
// The deadline reaches f only through its context. A formatter that ignores
// ctx runs to completion and its result is kept; abandoning it early would
// let it keep reading settings after the job's overrides were rolled back.
//
// Example:
//
//	f := preview.WithTimeout(formatter, 2*time.Second)
func WithTimeout(f Formatter, d time.Duration) Formatter {
	if d <= 0 {
		return f
	}
	return FormatterFunc(func(ctx context.Context, source string, category Category, settings Reader) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return f.Format(ctx, source, category, settings)
	})
}
