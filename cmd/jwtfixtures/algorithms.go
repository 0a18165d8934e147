package main

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/alexadamm/jwt-fixtures-go/pkg/token/algorithms"
)

func newAlgorithmsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(a.out)
			table.Header([]string{"Name", "Family", "Hash", "Curve", "Transit keys"})

			for _, name := range algorithms.List() {
				alg, err := algorithms.Get(name)
				if err != nil {
					return err
				}

				hash, curve, transit := "-", "-", "-"
				if alg.Hash() != 0 {
					hash = alg.Hash().String()
				}
				if ec, ok := alg.(interface{ CurveName() string }); ok {
					curve = ec.CurveName()
				}
				if types := alg.TransitKeyTypes(); len(types) > 0 {
					transit = strings.Join(types, " ")
				}

				table.Append([]string{alg.Name(), alg.Family().String(), hash, curve, transit})
			}

			return table.Render()
		},
	}
}
