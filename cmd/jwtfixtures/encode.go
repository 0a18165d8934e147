package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/alexadamm/jwt-fixtures-go/internal/logger"
	"github.com/alexadamm/jwt-fixtures-go/pkg/claims"
	"github.com/alexadamm/jwt-fixtures-go/pkg/keys"
	"github.com/alexadamm/jwt-fixtures-go/pkg/token"
	"github.com/alexadamm/jwt-fixtures-go/pkg/vault"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		alg       string
		claimJSON string
		secret    string
		keyFile   string
		transit   string
		kid       string
		cty       string
		x5u       string
		crit      []string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode one token and print it",
		Example: `  jwtfixtures encode --alg HS256 --secret secret --claims '{"sub":"1234567890"}'
  jwtfixtures encode --alg ES256 --key ec256.pem
  jwtfixtures encode --alg none --claims '{"exp":1448465478}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.load()
			if err != nil {
				return err
			}

			set, err := claims.Parse([]byte(claimJSON))
			if err != nil {
				return err
			}

			var key interface{}
			switch {
			case countSet(secret, keyFile, transit) > 1:
				return errors.New("use only one of --secret, --key, --transit")
			case secret != "":
				key = keys.Secret(secret)
			case keyFile != "":
				data, err := afero.ReadFile(a.fs, keyFile)
				if err != nil {
					return err
				}
				key = keys.PEM(data)
			case transit != "":
				client, err := vault.NewClient(vault.Config{
					Address:     cfg.Vault.Address,
					Token:       cfg.Vault.Token,
					Mount:       cfg.Vault.Mount,
					TransitPath: transit,
				})
				if err != nil {
					return err
				}
				if kid == "" {
					if kid, err = client.KeyID(cmd.Context()); err != nil {
						return err
					}
				}
				key = client
			}

			enc := token.NewEncoder(
				token.WithKeyID(kid),
				token.WithContentType(cty),
				token.WithCertificateURL(x5u),
				token.WithCritical(crit...),
				token.WithLogger(logger.WithScope(log, "encode")),
			)

			tok, err := enc.EncodeContext(cmd.Context(), set, key, alg)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, tok)
			return nil
		},
	}

	cmd.Flags().StringVarP(&alg, "alg", "a", "HS256", "JWS algorithm")
	cmd.Flags().StringVar(&claimJSON, "claims", "{}", "claims as a JSON object, key order is kept")
	cmd.Flags().StringVar(&secret, "secret", "", "HMAC secret")
	cmd.Flags().StringVarP(&keyFile, "key", "k", "", "PEM private key file")
	cmd.Flags().StringVar(&transit, "transit", "", "Vault Transit key name")
	cmd.Flags().StringVar(&kid, "kid", "", "kid header value")
	cmd.Flags().StringVar(&cty, "cty", "", "cty header value")
	cmd.Flags().StringVar(&x5u, "x5u", "", "x5u header value")
	cmd.Flags().StringSliceVar(&crit, "crit", nil, "crit header values")

	return cmd
}

func countSet(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}
