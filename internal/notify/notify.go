// Package notify emits user facing notifications, the Go counterpart of UI toasts.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/metal-toolbox/assetctl/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Kind is the notification severity.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Notification is a single user facing message.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
	// Sticky notifications are not dismissed automatically.
	Sticky bool `json:"sticky,omitempty"`
}

// Notifier emits notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Loader shows a blocking loading indicator until the returned release func is called.
type Loader interface {
	Busy(ctx context.Context, text string) (release func())
}

// Multi fans out notifications to each of its notifiers in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}

// counting counts emitted notifications by kind.
type counting struct {
	notifier Notifier
}

// WithMetrics returns a Notifier that counts the notifications passed on to the given notifier.
func WithMetrics(n Notifier) Notifier {
	return &counting{notifier: n}
}

func (c *counting) Notify(ctx context.Context, n Notification) {
	metrics.NotificationsEmitted.With(prometheus.Labels{"kind": string(n.Kind)}).Inc()

	c.notifier.Notify(ctx, n)
}

// LogNotifier writes notifications to the logger.
type LogNotifier struct {
	logger *logrus.Entry
}

// NewLogNotifier returns a notifier that logs notifications.
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithField("component", "notifier.log")}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) {
	entry := l.logger.WithFields(logrus.Fields{
		"kind":   n.Kind,
		"sticky": n.Sticky,
	})

	if n.Message != "" {
		entry = entry.WithField("detail", n.Message)
	}

	switch n.Kind {
	case KindError:
		entry.Error(n.Title)
	case KindWarning:
		entry.Warn(n.Title)
	default:
		entry.Info(n.Title)
	}
}

func (l *LogNotifier) Busy(_ context.Context, text string) func() {
	startTS := time.Now()
	l.logger.Info(text)

	return func() {
		l.logger.WithField("elapsed", time.Since(startTS).String()).Debug(text + " done")
	}
}

// WriterNotifier renders notifications as lines on a terminal or any other writer.
type WriterNotifier struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterNotifier returns a notifier that writes notifications to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (wn *WriterNotifier) Notify(_ context.Context, n Notification) {
	wn.mu.Lock()
	defer wn.mu.Unlock()

	line := fmt.Sprintf("[%s] %s", n.Kind, n.Title)
	if n.Message != "" {
		line += ": " + n.Message
	}

	_, _ = fmt.Fprintln(wn.w, line)
}

func (wn *WriterNotifier) Busy(_ context.Context, text string) func() {
	wn.mu.Lock()
	_, _ = fmt.Fprintf(wn.w, "%s...\n", text)
	wn.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			wn.mu.Lock()
			defer wn.mu.Unlock()

			_, _ = fmt.Fprintf(wn.w, "%s... done\n", text)
		})
	}
}
