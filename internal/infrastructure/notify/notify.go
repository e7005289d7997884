// Package notify implements the user-facing notification sinks.
package notify

import (
	"context"
	"sync"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/buysmart/comparison/internal/logging"
)

// LogNotifier writes notifications to the structured log
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Component("notify")}
}

// Notify logs n at a level matching its severity
func (l *LogNotifier) Notify(ctx context.Context, n domain.Notification) {
	switch n.Severity {
	case domain.SeverityError:
		l.logger.Warn(ctx, n.Message, "severity", string(n.Severity))
	default:
		l.logger.Info(ctx, n.Message, "severity", string(n.Severity))
	}
}

// Feed buffers the most recent notifications until the UI drains them
type Feed struct {
	mutex sync.Mutex
	items []domain.Notification
	limit int
}

// NewFeed creates a feed keeping at most limit notifications
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit}
}

// Notify appends n, evicting the oldest entry when full
func (f *Feed) Notify(ctx context.Context, n domain.Notification) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if len(f.items) == f.limit {
		f.items = f.items[1:]
	}
	f.items = append(f.items, n)
}

// Drain returns buffered notifications oldest first and empties the feed
func (f *Feed) Drain() []domain.Notification {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	out := f.items
	f.items = nil
	if out == nil {
		return []domain.Notification{}
	}
	return out
}

// Multi fans a notification out to several sinks
type Multi []domain.Notifier

// Notify delivers n to every sink in order
func (m Multi) Notify(ctx context.Context, n domain.Notification) {
	for _, sink := range m {
		if sink != nil {
			sink.Notify(ctx, n)
		}
	}
}
