package preview

import "context"

// WithFallback tries primary and, if it returns an error, fallback with the
// same input. Nothing is retried once ctx is done.
//
// Example:
//
//	// Show a plain reindent when the full formatter rejects the sample.
//	f := preview.WithFallback(full, reindent)
func WithFallback(primary, fallback Formatter) Formatter {
	return FormatterFunc(func(ctx context.Context, source string, category Category, settings Reader) (string, error) {
		out, err := primary.Format(ctx, source, category, settings)
		if err == nil || ctx.Err() != nil {
			return out, err
		}
		return fallback.Format(ctx, source, category, settings)
	})
}
