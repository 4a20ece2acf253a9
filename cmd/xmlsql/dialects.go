package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoobzio/xmlsql"
)

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the dialects and the XML functions each supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range xmlsql.Dialects() {
				engine, err := xmlsql.ForDialect(name)
				if err != nil {
					return err
				}
				caps := engine.Capabilities()
				fmt.Fprintf(out, "%-11s %s\n", name, strings.Join(engine.Functions(), ","))
				fmt.Fprintf(out, "%-11s filter=%t apply=%t concat=%s\n", "", caps.FilterClause, caps.LateralApply, caps.ConcatOperator)
			}
			return nil
		},
	}
}
