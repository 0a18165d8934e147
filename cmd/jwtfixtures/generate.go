package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexadamm/jwt-fixtures-go/internal/fixtures"
	"github.com/alexadamm/jwt-fixtures-go/internal/logger"
	"github.com/alexadamm/jwt-fixtures-go/pkg/keys"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		outDir string
		jwks   bool
		kids   bool
		only   []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the fixture catalog to a directory",
		Long: `Encodes the default fixture catalog, one <name>.jwt file per fixture.
Fixtures whose key is not configured are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.Output.Dir = outDir
			}
			if cmd.Flags().Changed("jwks") {
				cfg.Output.JWKS = jwks
			}
			if cmd.Flags().Changed("kid") {
				cfg.Output.KeyIDs = kids
			}

			catalog, err := fixtures.DefaultCatalog().Filter(only...)
			if err != nil {
				return err
			}

			parser, err := keys.NewParser(len(cfg.Keys))
			if err != nil {
				return err
			}
			ring, err := fixtures.LoadKeyring(a.fs, cfg.Keys, cfg.Vault, parser)
			if err != nil {
				return err
			}
			log.Debug().Strs("keys", ring.Names()).Msg("keyring loaded")

			gen := fixtures.NewGenerator(a.fs, fixtures.Options{
				Dir:         cfg.Output.Dir,
				Concurrency: cfg.Concurrency,
				JWKS:        cfg.Output.JWKS,
				KeyIDs:      cfg.Output.KeyIDs,
				Logger:      logger.WithScope(log, "generate"),
				Parser:      parser,
			})

			report, err := gen.Generate(cmd.Context(), catalog, ring)
			if err != nil {
				return err
			}

			for _, path := range report.Written {
				fmt.Fprintln(a.out, path)
			}
			for _, name := range report.Skipped {
				fmt.Fprintf(a.errOut, "skipped %s: key not configured\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&jwks, "jwks", false, "also write jwks.json with the public keys")
	cmd.Flags().BoolVar(&kids, "kid", false, "add a kid header to signed fixtures")
	cmd.Flags().StringSliceVar(&only, "only", nil, "generate only the named fixtures")

	return cmd
}
