package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugr-lab/fetchargs"
	"github.com/hugr-lab/fetchargs/filter"
)

// NewCompileCmd creates the "compile" subcommand.
func NewCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile an event filter argument into a condition tree",
		Long: `Reads an argument bag (JSON, or YAML for .yaml/.yml files), coerces the
event filter argument and prints the resulting condition tree as JSON.
With --sql the DuckDB WHERE clause for the tree is printed as well.`,
		Args: cobra.NoArgs,
		RunE: runCompile,
	}

	cmd.Flags().String("registry", "", "Registry YAML or snapshot file (default: built-in types)")
	cmd.Flags().String("args", "-", "Argument bag file, - for stdin")
	cmd.Flags().String("arg", "filter", "Name of the event filter argument")
	cmd.Flags().Bool("sql", false, "Also print the DuckDB WHERE clause")
	cmd.Flags().StringToString("column", nil, "Property to column mapping for --sql, e.g. eventType=event_type")
	cmd.Flags().Bool("pretty", true, "Pretty-print JSON output")
	cmd.Flags().String("locale", "", "Date locale (BCP 47)")

	return cmd
}

// runCompile implements the compile pipeline:
//
//	load registry → read bag → coerce filter → compile → JSON → (--sql) render
func runCompile(cmd *cobra.Command, _ []string) error {
	registryPath, _ := cmd.Flags().GetString("registry")
	argsPath, _ := cmd.Flags().GetString("args")
	argName, _ := cmd.Flags().GetString("arg")
	withSQL, _ := cmd.Flags().GetBool("sql")
	columns, _ := cmd.Flags().GetStringToString("column")
	pretty, _ := cmd.Flags().GetBool("pretty")
	locale, _ := cmd.Flags().GetString("locale")

	reg, err := loadRegistry(cmd, registryPath)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, argsPath)
	if err != nil {
		return err
	}
	bag, err := decodeBag(data, argsPath)
	if err != nil {
		return err
	}

	f, err := fetchargs.New(fetchargs.Config{
		Registry:   reg,
		Logger:     newLogger(cmd),
		DateLocale: locale,
	})
	if err != nil {
		return exitError(exitConfiguration, "%s", err)
	}

	c, err := f.EventFilter(bag, argName)
	if err != nil {
		return exitError(classify(err), "compiling %s: %s", argName, err)
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(c, "", "  ")
	} else {
		out, err = json.Marshal(c)
	}
	if err != nil {
		return exitError(exitGeneric, "serializing condition: %s", err)
	}
	out = append(out, '\n')

	if withSQL {
		enc := filter.NewDuckDBEncoder(&filter.EncoderOptions{ColumnMapping: columns})
		where := enc.Encode(c)
		if where == "" {
			f.Logger().Warn("condition cannot be rendered as SQL, no filter applied")
		} else {
			out = fmt.Appendf(out, "WHERE %s\n", where)
		}
	}

	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("writing to stdout: %w", err)
	}
	return nil
}
