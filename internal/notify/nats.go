package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/metal-toolbox/assetctl/internal/app"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrNatsNotifier = errors.New("nats notifier error")
)

// publisher is the subset of the NATS connection used to publish notifications.
type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes notifications on a NATS subject for a UI to render.
type NATSNotifier struct {
	conn    publisher
	close   func()
	subject string
	logger  *logrus.Entry
}

// message is the payload published on the subject.
type message struct {
	Notification
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNATSNotifier connects to the NATS server and returns a notifier publishing to the configured subject.
func NewNATSNotifier(cfg *app.NatsOptions, logger *logrus.Logger) (*NATSNotifier, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.Wrap(ErrNatsNotifier, "expected a NATS url, got empty")
	}

	opts := []nats.Option{
		nats.Name(model.AppName),
		nats.Timeout(cfg.ConnectTimeout),
	}

	if cfg.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFile))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, errors.Wrap(ErrNatsNotifier, err.Error())
	}

	return &NATSNotifier{
		conn:    conn,
		close:   conn.Close,
		subject: cfg.Subject,
		logger:  logger.WithField("component", "notifier.nats"),
	}, nil
}

func (n *NATSNotifier) Notify(_ context.Context, notification Notification) {
	data, err := json.Marshal(&message{
		Notification: notification,
		Source:       model.AppName,
		Timestamp:    time.Now(),
	})
	if err != nil {
		n.logger.WithError(err).Warn("error encoding notification")
		return
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		n.logger.WithError(err).WithField("subject", n.subject).Warn("error publishing notification")
	}
}

// Close drains the connection.
func (n *NATSNotifier) Close() {
	if n.close != nil {
		n.close()
	}
}
