package preview

import (
	"sync"
	"unicode/utf8"
)

// DefaultCaret is where the caret goes when its previous offset does not
// fit in the new text.
const DefaultCaret = 0

// Sink displays preview text.
type Sink interface {
	// Apply replaces the displayed text, keeping the caret where possible.
	Apply(text string)

	// CurrentText returns the displayed text.
	CurrentText() string
}

// View is a text widget with a caret, measured in runes.
type View interface {
	Text() string
	SetText(text string)
	Caret() int
	SetCaret(offset int)
}

// ApplyPreservingCaret replaces the text of v with output. The caret keeps
// its offset if that offset still exists in output and moves to
// DefaultCaret otherwise.
func ApplyPreservingCaret(v View, output string) {
	k := v.Caret()
	v.SetText(output)
	if k >= 0 && k <= utf8.RuneCountInString(output) {
		v.SetCaret(k)
		return
	}
	v.SetCaret(DefaultCaret)
}

// Display is an in-memory View and Sink.
type Display struct {
	mu       sync.RWMutex
	text     string
	caret    int
	applied  int
	onChange func(text string, caret int)
}

// NewDisplay creates an empty Display.
func NewDisplay() *Display {
	return &Display{}
}

// OnChange sets a callback invoked after every Apply with the new text and caret.
func (d *Display) OnChange(fn func(text string, caret int)) *Display {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = fn
	return d
}

// Text returns the displayed text.
func (d *Display) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// SetText replaces the text without touching the caret.
func (d *Display) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
}

// Caret returns the caret offset.
func (d *Display) Caret() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.caret
}

// SetCaret moves the caret. Negative offsets clamp to zero.
func (d *Display) SetCaret(offset int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.caret = max(offset, 0)
}

// Apply implements Sink.
func (d *Display) Apply(text string) {
	ApplyPreservingCaret(d, text)

	d.mu.Lock()
	d.applied++
	fn, caret := d.onChange, d.caret
	d.mu.Unlock()

	if fn != nil {
		fn(text, caret)
	}
}

// CurrentText implements Sink.
func (d *Display) CurrentText() string {
	return d.Text()
}

// Applied returns how many times Apply has run.
func (d *Display) Applied() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.applied
}

var (
	_ Sink = (*Display)(nil)
	_ View = (*Display)(nil)
)
