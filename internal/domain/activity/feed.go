package activity

import (
	"context"
	"sync"
)

type feed struct {
	mu   sync.Mutex
	subs map[chan []Activity]struct{}
}

func newFeed() *feed {
	return &feed{subs: make(map[chan []Activity]struct{})}
}

func (f *feed) subscribe(initial []Activity) chan []Activity {
	ch := make(chan []Activity, 1)
	ch <- initial
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *feed) unsubscribe(ch chan []Activity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[ch]; ok {
		delete(f.subs, ch)
		close(ch)
	}
}

func (f *feed) hasSubscribers() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs) > 0
}

// publish replaces any unread snapshot so slow readers only see the latest.
func (f *feed) publish(snapshot []Activity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

// Watch streams the full activity list: once immediately and again after
// every change made through this service or reported via NotifyChanged.
// The channel closes when ctx is done.
func (s *Service) Watch(ctx context.Context) (<-chan []Activity, error) {
	initial, err := s.List(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}
	ch := s.feed.subscribe(initial)
	go func() {
		<-ctx.Done()
		s.feed.unsubscribe(ch)
	}()
	return ch, nil
}

// NotifyChanged pushes a fresh snapshot to watchers. Writers that bypass the
// service, such as ingestion, call it after committing.
func (s *Service) NotifyChanged(ctx context.Context) {
	if !s.feed.hasSubscribers() {
		return
	}
	snapshot, err := s.repo.List(ctx, ListOptions{})
	if err != nil {
		s.logger.Warn("failed to refresh activity watchers", "error", err)
		return
	}
	s.feed.publish(snapshot)
}
