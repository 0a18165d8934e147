// Command jwtfixtures encodes JSON Web Tokens and generates token fixture sets.
package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

func main() {
	os.Exit(execute(afero.NewOsFs(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the root command and returns the process exit code
func execute(fs afero.Fs, args []string, out, errOut io.Writer) int {
	cmd := newRootCmd(fs, out, errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: errOut, NoColor: true})
		log.Error().Err(err).Msg("Failed to execute command")
		return 1
	}
	return 0
}
