// Package cmd implements the assetctl command line interface.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/metal-toolbox/assetctl/internal/helpers"
	"github.com/metal-toolbox/assetctl/internal/model"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
)

const (
	outputJSON = "json"
	outputDump = "dump"
)

var (
	errParseCLIParam = errors.New("parameter parse failed")
	// errFailed is returned when a call failed, the failure was already reported as a notification.
	errFailed = errors.New("request failed")
)

var (
	// cfgFile is the configuration file
	cfgFile string
	// logLevel overrides the configured log level
	logLevel string
	// output is one of json, dump
	output string
	// flag enables pprof endpoint on localhost:9091
	pprof bool
)

// RootCmd is the cli root command instance, subcommands register themselves on it
var RootCmd = &cobra.Command{
	Use:           model.AppName,
	Short:         "assetctl manages tracked assets through the asset management API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		switch output {
		case outputJSON, outputDump:
		default:
			return errors.Wrap(errParseCLIParam, "unsupported output format: "+output)
		}

		switch model.LogLevel(logLevel) {
		case "", model.LogLevelInfo, model.LogLevelDebug, model.LogLevelTrace:
		default:
			return errors.Wrap(errParseCLIParam, "unsupported log level: "+logLevel)
		}

		if pprof {
			helpers.EnablePProfile()
		}

		return nil
	},
}

// Execute runs the root command, all sub commands are registered in init funcs.
func Execute() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "assetctl configuration file")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, one of info, debug, trace")
	RootCmd.PersistentFlags().BoolVar(&pprof, "profile", false, "Enable performance profile endpoint.")
	RootCmd.PersistentFlags().StringVarP(&output, "output", "o", outputJSON, "output format, one of json, dump")
}

// printResult writes v to stdout in the selected output format.
func printResult(v any) error {
	if output == outputDump {
		litter.Config.HidePrivateFields = true
		litter.Dump(v)

		return nil
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(b))

	return nil
}

// result prints v, a nil v is a failed call.
func result[T any](v *T) error {
	if v == nil {
		return errFailed
	}

	return printResult(v)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Wrap(errParseCLIParam, "invalid asset id: "+arg)
	}

	return id, nil
}
