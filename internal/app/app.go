package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bombsimon/logrusr/v4"
	"github.com/equinix-labs/otel-init-go/otelinit"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

var (
	ErrAppInit = errors.New("error initializing app")
)

// App holds attributes for running assetctl.
type App struct {
	// Viper loads configuration parameters.
	v *viper.Viper
	// App configuration.
	Config *Configuration
	// TermCh is the channel to terminate the app based on a signal
	TermCh chan os.Signal
	// Logger is the app logger
	Logger *logrus.Logger
}

// New returns a new assetctl application object with the configuration loaded
func New(cfgFile string, loglevel model.LogLevel) (app *App, err error) {
	app = &App{
		v:      viper.New(),
		Config: &Configuration{},
		TermCh: make(chan os.Signal, 1),
		Logger: logrus.New(),
	}

	if err := app.LoadConfiguration(cfgFile); err != nil {
		return nil, errors.Wrap(ErrAppInit, err.Error())
	}

	// the flag value takes precedence over the configured level
	if loglevel == "" {
		loglevel = model.LogLevel(app.Config.LogLevel)
	}

	switch loglevel {
	case model.LogLevelDebug:
		app.Logger.Level = logrus.DebugLevel
	case model.LogLevelTrace:
		app.Logger.Level = logrus.TraceLevel
	default:
		app.Logger.Level = logrus.InfoLevel
	}

	app.Logger.SetFormatter(&logrus.JSONFormatter{})

	// register for SIGINT, SIGTERM
	signal.Notify(app.TermCh, syscall.SIGINT, syscall.SIGTERM)

	return app, nil
}

// InitTelemetry sets up the OpenTelemetry exporters and routes otel internal logs to the app logger.
//
// The returned func flushes and shuts down the exporters.
func (a *App) InitTelemetry(ctx context.Context) (context.Context, func(context.Context)) {
	otel.SetLogger(logrusr.New(a.Logger))

	return otelinit.InitOpenTelemetry(ctx, model.AppName)
}

// NewLogrusEntryFromLogger returns a logger contextualized with the given logrus fields.
func NewLogrusEntryFromLogger(fields logrus.Fields, logger *logrus.Logger) *logrus.Entry {
	loggerEntry := logger.WithFields(fields)
	loggerEntry.Level = logger.Level

	return loggerEntry
}
