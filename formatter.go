package preview

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Formatter transforms source text using the given settings. It should
// return promptly once ctx is canceled, but nothing requires it to.
type Formatter interface {
	Format(ctx context.Context, source string, category Category, settings Reader) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, source string, category Category, settings Reader) (string, error)

// Format calls f.
func (f FormatterFunc) Format(ctx context.Context, source string, category Category, settings Reader) (string, error) {
	return f(ctx, source, category, settings)
}

// Identity returns the source unchanged.
var Identity Formatter = FormatterFunc(func(_ context.Context, source string, _ Category, _ Reader) (string, error) {
	return source, nil
})

// safeFormat runs f and converts errors and panics into *FormatError.
func safeFormat(ctx context.Context, f Formatter, source string, category Category, settings Reader) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FormatError{
				Category: category,
				Cause:    fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
			}
		}
	}()

	out, err = f.Format(ctx, source, category, settings)
	if err != nil {
		return "", &FormatError{Category: category, Cause: err}
	}
	return out, nil
}
