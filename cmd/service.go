package cmd

import (
	"context"
	"os"

	"github.com/metal-toolbox/assetctl/internal/app"
	"github.com/metal-toolbox/assetctl/internal/assets"
	"github.com/metal-toolbox/assetctl/internal/metrics"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/metal-toolbox/assetctl/internal/notify"
	"github.com/metal-toolbox/assetctl/internal/transport"
	"github.com/sirupsen/logrus"
)

// session holds the service and what needs to be shut down once a command completes.
type session struct {
	ctx     context.Context
	service *assets.Service
	closers []func()
}

// Close flushes pending notifications and shuts down the notifier and exporters.
func (r *session) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// newSession initializes the app from the configuration and returns a session wired with the asset service.
func newSession(ctx context.Context) (*session, error) {
	theApp, err := app.New(cfgFile, model.LogLevel(logLevel))
	if err != nil {
		return nil, err
	}

	r := &session{}

	cancelCtx, cancel := context.WithCancel(ctx)
	r.closers = append(r.closers, cancel)

	// cancel in flight requests on SIGINT, SIGTERM
	go func() {
		select {
		case <-theApp.TermCh:
			theApp.Logger.Info("got TERM signal, exiting...")
			cancel()
		case <-cancelCtx.Done():
		}
	}()

	ctx, otelShutdown := theApp.InitTelemetry(cancelCtx)
	r.closers = append(r.closers, func() { otelShutdown(context.Background()) })

	if theApp.Config.MetricsEndpoint != "" {
		metrics.ListenAndServe(theApp.Config.MetricsEndpoint)
	}

	tr, err := transport.New(ctx, theApp.Config, theApp.Logger)
	if err != nil {
		r.Close()
		return nil, err
	}

	notifier, loader, closeNotifier, err := newNotifier(theApp.Config.NotifierOptions, theApp.Logger)
	if err != nil {
		r.Close()
		return nil, err
	}

	r.closers = append(r.closers, closeNotifier)

	queue := notify.NewQueue(notifier, theApp.Config.NotifierOptions.Interval)

	// the queue is drained before the notifier is closed
	r.closers = append(r.closers, queue.Close)

	r.ctx = ctx
	r.service = assets.NewService(
		assets.NewClient(tr),
		notifier,
		loader,
		queue,
		theApp.Config.ExportDir,
		theApp.Logger,
	)

	return r, nil
}

// newNotifier returns the configured notifier and loading indicator.
func newNotifier(cfg *app.NotifierOptions, logger *logrus.Logger) (notify.Notifier, notify.Loader, func(), error) {
	noop := func() {}

	switch model.NotifierKind(cfg.Kind) {
	case model.NotifierKindLog:
		ln := notify.NewLogNotifier(logger)
		return notify.WithMetrics(ln), ln, noop, nil

	case model.NotifierKindNats:
		nn, err := notify.NewNATSNotifier(cfg.NatsOptions, logger)
		if err != nil {
			return nil, nil, nil, err
		}

		// notifications are logged as well so they are not lost on a disconnected subscriber
		ln := notify.NewLogNotifier(logger)

		return notify.WithMetrics(notify.Multi{nn, ln}), ln, nn.Close, nil

	default:
		// stdout is kept for results, notifications go to stderr
		wn := notify.NewWriterNotifier(os.Stderr)
		return notify.WithMetrics(wn), wn, noop, nil
	}
}

// withSession runs fn with an initialized session and closes it once fn returns.
func withSession(ctx context.Context, fn func(context.Context, *assets.Service) error) error {
	r, err := newSession(ctx)
	if err != nil {
		return err
	}

	defer r.Close()

	return fn(r.ctx, r.service)
}
