package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoobzio/dbml"

	"github.com/zoobzio/xmlsql"
)

type xmlTableOptions struct {
	config     string
	dialect    string
	logLevel   string
	table      string
	identifier string
	document   string
	docType    string
	xpath      string
	columns    []string
	ordinality string
}

func newXmlTableCmd() *cobra.Command {
	o := &xmlTableOptions{}
	cmd := &cobra.Command{
		Use:   "xmltable",
		Short: "Render a query joining a table to an xmltable over one of its columns",
		Example: `  xmlsql xmltable --dialect sqlserver --xpath /books/book \
    --column title:varchar(100) --column year:int:@year --column notes:xml --ordinality pos`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sql, params, err := o.render()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sql)
			if len(params) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "-- params: %s\n", strings.Join(params, ","))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.config, "config", "", "YAML config file; its dialect is used unless --dialect is set")
	f.StringVar(&o.dialect, "dialect", "", "target dialect (default postgresql)")
	f.StringVar(&o.logLevel, "log-level", "", "log level, overrides the config")
	f.StringVar(&o.table, "table", "docs", "table holding the documents")
	f.StringVar(&o.identifier, "id", "id", "identifier column of the table")
	f.StringVar(&o.document, "document", "doc", "column holding the document")
	f.StringVar(&o.docType, "document-type", "xml", "SQL type of the document column")
	f.StringVar(&o.xpath, "xpath", "", "row XPath")
	f.StringArrayVar(&o.columns, "column", nil, "output column as name:type[:path]; type xml selects the fragment")
	f.StringVar(&o.ordinality, "ordinality", "", "name of a row number column")
	_ = cmd.MarkFlagRequired("xpath")
	return cmd
}

func (o *xmlTableOptions) loadConfig() (*xmlsql.Config, error) {
	cfg := &xmlsql.Config{Dialect: "postgresql"}
	if o.config != "" {
		loaded, err := xmlsql.LoadConfig(o.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.dialect != "" {
		cfg.Dialect = o.dialect
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// model describes the single source table named by the flags.
func (o *xmlTableOptions) model() (*xmlsql.Model, error) {
	project := dbml.NewProject("xmlsql")
	table := dbml.NewTable(o.table)
	table.AddColumn(dbml.NewColumn(o.identifier, "int"))
	table.AddColumn(dbml.NewColumn(o.document, o.docType))
	project.AddTable(table)
	return xmlsql.NewModel(project, xmlsql.WithIdentifier(o.table, o.identifier))
}

func (o *xmlTableOptions) render() (string, []string, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return "", nil, err
	}
	model, err := o.model()
	if err != nil {
		return "", nil, err
	}
	engine, err := xmlsql.Open(cfg, xmlsql.WithModel(model))
	if err != nil {
		return "", nil, err
	}

	var defs []xmlsql.ColumnDefinition
	for _, spec := range o.columns {
		def, err := parseColumn(spec)
		if err != nil {
			return "", nil, err
		}
		defs = append(defs, def)
	}
	if o.ordinality != "" {
		defs = append(defs, xmlsql.Ordinality(o.ordinality))
	}
	if len(defs) == 0 {
		return "", nil, fmt.Errorf("at least one --column or --ordinality is required")
	}

	q := engine.NewQuery().From(o.table, "t0")
	q.TableFunction("xmltable", "x1_0", xmlsql.Str(o.xpath), q.Col("t0", o.document), xmlsql.Columns(defs...))
	q.Select(q.Col("t0", o.identifier), "")
	for _, def := range defs {
		q.Select(q.Col("x1_0", def.ColumnName()), "")
	}

	result, err := q.Render()
	if err != nil {
		return "", nil, err
	}
	return result.SQL, result.RequiredParams, nil
}

// parseColumn parses name:type[:path]. The type may carry a length, as in
// varchar(40).
func parseColumn(spec string) (xmlsql.ColumnDefinition, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid column %q: expected name:type[:path]", spec)
	}
	name, sqlType := parts[0], parts[1]
	var path string
	if len(parts) == 3 {
		path = parts[2]
	}

	m := xmlsql.MappingForType(sqlType)
	if m.IsXML() {
		return xmlsql.Fragment(name, path), nil
	}
	length := 0
	if open := strings.IndexByte(sqlType, '('); open >= 0 && strings.HasSuffix(sqlType, ")") {
		if _, err := fmt.Sscanf(sqlType[open+1:len(sqlType)-1], "%d", &length); err != nil {
			return nil, fmt.Errorf("invalid column %q: bad length: %w", spec, err)
		}
	}
	return xmlsql.ValueAt(name, m, length, path), nil
}
