package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp() *App {
	return &App{v: viper.New(), Config: &Configuration{}}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	f := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(f, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return f
}

func Test_LoadConfiguration_Defaults(t *testing.T) {
	cfgFile := writeConfig(t, `
endpoint: https://assets.example.com/api
oauth:
  disable: true
`)

	a := testApp()
	require.NoError(t, a.LoadConfiguration(cfgFile))

	assert.Equal(t, "info", a.Config.LogLevel)
	assert.Equal(t, DefaultTimeout, a.Config.Timeout)
	assert.Equal(t, 0, a.Config.RetryMax)
	assert.Equal(t, ".", a.Config.ExportDir)
	assert.Equal(t, "stdout", a.Config.NotifierOptions.Kind)
	assert.Equal(t, DefaultNotificationInterval, a.Config.NotifierOptions.Interval)
	assert.Equal(t, "assets.example.com", a.Config.EndpointURL.Host)
}

func Test_LoadConfiguration_EnvOverrides(t *testing.T) {
	cfgFile := writeConfig(t, `
endpoint: https://assets.example.com/api
oauth:
  disable: true
notifier:
  kind: stdout
`)

	t.Setenv("ASSETCTL_ENDPOINT", "http://localhost:3000")
	t.Setenv("ASSETCTL_NOTIFIER_INTERVAL", "1s")
	t.Setenv("ASSETCTL_AUTH_TOKEN", "hunter2")

	a := testApp()
	require.NoError(t, a.LoadConfiguration(cfgFile))

	assert.Equal(t, "http://localhost:3000", a.Config.Endpoint)
	assert.Equal(t, "hunter2", a.Config.AuthToken)
	assert.Equal(t, time.Second, a.Config.NotifierOptions.Interval)
}

func Test_LoadConfiguration_Errors(t *testing.T) {
	testcases := []struct {
		name   string
		config string
	}{
		{
			"endpoint is required",
			"oauth:\n  disable: true\n",
		},
		{
			"oauth parameters are required unless disabled",
			"endpoint: https://assets.example.com\n",
		},
		{
			"nats notifier requires a url",
			"endpoint: https://assets.example.com\noauth:\n  disable: true\nnotifier:\n  kind: nats\n",
		},
		{
			"unknown notifier kind",
			"endpoint: https://assets.example.com\noauth:\n  disable: true\nnotifier:\n  kind: carrier-pigeon\n",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			a := testApp()
			err := a.LoadConfiguration(writeConfig(t, tc.config))
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}
