package preview

import "context"

// Watcher observes a source of text and emits its contents on a channel.
// Implementations should emit the current contents immediately so the
// preview has something to show before the first edit.
type Watcher interface {
	// Watch begins observing the source. The returned channel is closed
	// when ctx is canceled or the source becomes unreadable.
	Watch(ctx context.Context) (<-chan []byte, error)
}
