package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/alexadamm/jwt-fixtures-go/internal/config"
	"github.com/alexadamm/jwt-fixtures-go/internal/logger"
)

// app carries the dependencies shared by all commands
type app struct {
	fs         afero.Fs
	out        io.Writer
	errOut     io.Writer
	configPath string
	logLevel   string
}

func newRootCmd(fs afero.Fs, out, errOut io.Writer) *cobra.Command {
	a := &app{fs: fs, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "jwtfixtures",
		Short:         "JWT encoder and fixture generator",
		Long:          `Encodes JSON Web Tokens with any JWS algorithm and generates token fixture sets for testing token consumers`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newEncodeCmd(a),
		newAlgorithmsCmd(a),
	)

	return rootCmd
}

// load reads the configuration and builds the logger it describes
func (a *app) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(a.fs, a.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: a.errOut,
	})
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}
