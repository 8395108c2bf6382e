package store

import (
	"context"
	"sync"

	"tableflip.dev/calendiary/pkg/diary"
)

// notifier fans in-process change events out to Watch subscribers. Slow
// subscribers miss events rather than block writers.
type notifier struct {
	mu   sync.Mutex
	subs map[chan diary.Event]struct{}
}

func (n *notifier) subscribe(ctx context.Context) <-chan diary.Event {
	ch := make(chan diary.Event, 64)
	n.mu.Lock()
	if n.subs == nil {
		n.subs = make(map[chan diary.Event]struct{})
	}
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		if _, ok := n.subs[ch]; ok {
			delete(n.subs, ch)
			close(ch)
		}
		n.mu.Unlock()
	}()
	return ch
}

func (n *notifier) publish(ev diary.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// closeAll ends every subscription.
func (n *notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		delete(n.subs, ch)
		close(ch)
	}
}
