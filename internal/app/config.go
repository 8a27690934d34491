package app

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jeremywohl/flatten"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

var (
	ErrConfig = errors.New("configuration error")
)

const (
	DefaultTimeout              = 30 * time.Second
	DefaultNotificationInterval = 200 * time.Millisecond
	DefaultNatsSubject          = "assetctl.notifications"
	DefaultNatsConnectTimeout   = 2 * time.Second
	DefaultOidcClientID         = "assetctl"
)

// Configuration holds application configuration read from a YAML or set by env variables.
//
// nolint:govet // prefer readability over field alignment optimization for this case.
type Configuration struct {
	// LogLevel is the app verbose logging level.
	// one of - info, debug, trace
	LogLevel string `mapstructure:"log_level"`

	// Endpoint is the asset management API base URL, the /assets resources are relative to it.
	Endpoint string `mapstructure:"endpoint"`

	// EndpointURL is the parsed Endpoint.
	EndpointURL *url.URL `mapstructure:"-"`

	// AuthToken when set is sent as a bearer token with each request.
	AuthToken string `mapstructure:"auth_token"`

	// CustomHeaders are included in each request.
	CustomHeaders map[string]string `mapstructure:"custom_headers"`

	// Timeout for each request made to the API.
	Timeout time.Duration `mapstructure:"timeout"`

	// RetryMax is the number of times a failed request is retried,
	// defaults to 0 - a failed request is reported once and never repeated.
	RetryMax int `mapstructure:"retry_max"`

	// ExportDir is the directory exported spreadsheets are written into.
	ExportDir string `mapstructure:"export_dir"`

	// MetricsEndpoint when set exposes prometheus metrics on the address.
	MetricsEndpoint string `mapstructure:"metrics_endpoint"`

	// OAuthOptions defines the client credentials flow parameters.
	OAuthOptions *OAuthOptions `mapstructure:"oauth"`

	// NotifierOptions defines where user facing notifications are sent.
	NotifierOptions *NotifierOptions `mapstructure:"notifier"`
}

// OAuthOptions defines configuration for the OIDC client credentials flow.
type OAuthOptions struct {
	Disable          bool     `mapstructure:"disable"`
	IssuerEndpoint   string   `mapstructure:"issuer_endpoint"`
	AudienceEndpoint string   `mapstructure:"audience_endpoint"`
	ClientSecret     string   `mapstructure:"client_secret"`
	ClientID         string   `mapstructure:"client_id"`
	ClientScopes     []string `mapstructure:"client_scopes"`
}

// NotifierOptions defines configuration for user facing notifications.
type NotifierOptions struct {
	// Kind is one of stdout, log, nats
	Kind string `mapstructure:"kind"`

	// Interval paces notifications emitted in a sequence.
	Interval time.Duration `mapstructure:"interval"`

	// NatsOptions is required when Kind is set to nats.
	NatsOptions *NatsOptions `mapstructure:"nats"`
}

// NatsOptions defines the NATS connection the notifications are published on.
type NatsOptions struct {
	URL            string        `mapstructure:"url"`
	Subject        string        `mapstructure:"subject"`
	CredsFile      string        `mapstructure:"creds_file"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// LoadConfiguration loads application configuration
//
// Reads in the cfgFile when available and overrides from environment variables.
func (a *App) LoadConfiguration(cfgFile string) error {
	a.v.SetConfigType("yaml")
	a.v.SetEnvPrefix(model.AppName)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	// these are initialized here so viper can read in configuration from env vars
	a.Config.OAuthOptions = &OAuthOptions{}
	a.Config.NotifierOptions = &NotifierOptions{
		NatsOptions: &NatsOptions{},
	}

	if cfgFile != "" {
		fh, err := os.Open(cfgFile)
		if err != nil {
			return errors.Wrap(ErrConfig, err.Error())
		}

		defer fh.Close()

		if err = a.v.ReadConfig(fh); err != nil {
			return errors.Wrap(ErrConfig, "ReadConfig error:"+err.Error())
		}
	}

	a.v.SetDefault("log_level", string(model.LogLevelInfo))
	a.v.SetDefault("timeout", DefaultTimeout)
	a.v.SetDefault("retry_max", 0)
	a.v.SetDefault("export_dir", ".")
	a.v.SetDefault("notifier.kind", string(model.NotifierKindStdout))
	a.v.SetDefault("notifier.interval", DefaultNotificationInterval)
	a.v.SetDefault("notifier.nats.subject", DefaultNatsSubject)
	a.v.SetDefault("notifier.nats.connect_timeout", DefaultNatsConnectTimeout)
	a.v.SetDefault("oauth.client_id", DefaultOidcClientID)

	if err := a.envBindVars(); err != nil {
		return errors.Wrap(ErrConfig, "env var bind error:"+err.Error())
	}

	if err := a.v.Unmarshal(a.Config); err != nil {
		return errors.Wrap(ErrConfig, "Unmarshal error: "+err.Error())
	}

	if err := a.validateEndpoint(); err != nil {
		return errors.Wrap(ErrConfig, err.Error())
	}

	if err := a.validateOAuth(); err != nil {
		return errors.Wrap(ErrConfig, "oauth config error: "+err.Error())
	}

	if err := a.validateNotifier(); err != nil {
		return errors.Wrap(ErrConfig, "notifier config error: "+err.Error())
	}

	return nil
}

// envBindVars binds environment variables to the struct
// without a configuration file being unmarshalled,
// this is a workaround for a viper bug,
//
// This can be replaced by the solution in https://github.com/spf13/viper/pull/1429
// once that PR is merged.
func (a *App) envBindVars() error {
	envKeysMap := map[string]interface{}{}
	if err := mapstructure.Decode(a.Config, &envKeysMap); err != nil {
		return err
	}

	// Flatten nested conf map
	flat, err := flatten.Flatten(envKeysMap, "", flatten.DotStyle)
	if err != nil {
		return errors.Wrap(err, "Unable to flatten config")
	}

	for k := range flat {
		if err := a.v.BindEnv(k); err != nil {
			return errors.Wrap(ErrConfig, "env var bind error: "+err.Error())
		}
	}

	return nil
}

func (a *App) validateEndpoint() error {
	if a.Config.Endpoint == "" {
		return errors.New("missing parameter: endpoint")
	}

	endpointURL, err := url.Parse(a.Config.Endpoint)
	if err != nil {
		return errors.New("endpoint URL error: " + err.Error())
	}

	if endpointURL.Scheme == "" || endpointURL.Host == "" {
		return errors.New("endpoint URL requires a scheme and host: " + a.Config.Endpoint)
	}

	a.Config.EndpointURL = endpointURL

	return nil
}

// nolint:gocyclo // parameter validation is cyclomatic
func (a *App) validateOAuth() error {
	opts := a.Config.OAuthOptions

	// a static token or no auth at all
	if opts.Disable {
		return nil
	}

	if opts.IssuerEndpoint == "" {
		return errors.New("oauth.issuer_endpoint not defined")
	}

	if opts.AudienceEndpoint == "" {
		return errors.New("oauth.audience_endpoint not defined")
	}

	if opts.ClientSecret == "" {
		return errors.New("oauth.client_secret not defined")
	}

	if opts.ClientID == "" {
		return errors.New("oauth.client_id not defined")
	}

	if len(opts.ClientScopes) == 0 {
		return errors.New("oauth.client_scopes not defined")
	}

	return nil
}

func (a *App) validateNotifier() error {
	opts := a.Config.NotifierOptions

	switch model.NotifierKind(opts.Kind) {
	case model.NotifierKindStdout, model.NotifierKindLog:
	case model.NotifierKindNats:
		if opts.NatsOptions == nil || opts.NatsOptions.URL == "" {
			return errors.New("missing parameter: notifier.nats.url")
		}

		if opts.NatsOptions.Subject == "" {
			return errors.New("missing parameter: notifier.nats.subject")
		}
	default:
		return errors.New("unsupported notifier kind: " + opts.Kind)
	}

	if opts.Interval < 0 {
		return errors.New("notifier.interval must not be negative")
	}

	return nil
}
