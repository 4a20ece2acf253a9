package main

import (
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xmlsql",
		Short:         "Render SQL/XML function calls for a database dialect",
		Long:          `Renders xmltable and the SQL/XML scalar functions for DB2, Oracle, SQL Server, HANA, Sybase ASE, PostgreSQL and H2.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("xmlsql version {{.Version}}\n")
	root.AddCommand(newDialectsCmd(), newXmlTableCmd())
	return root
}
