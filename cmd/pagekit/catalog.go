package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/entrhq/pagekit/pkg/command"
	"github.com/entrhq/pagekit/pkg/commands"
	"github.com/entrhq/pagekit/pkg/config"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the built-in commands",
	Long:  `Lists every built-in command and assertion, marking the entries the configured include/exclude patterns would skip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		all, _ := cmd.Flags().GetBool("all")
		return printCatalog(cmd.OutOrStdout(), cfg, all)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().Bool("all", false, "Include entries excluded by the configuration")
}

func printCatalog(w io.Writer, cfg *config.Config, all bool) error {
	filter, err := cfg.CommandFilter()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tCALLBACK\tREGISTERED")
	for _, def := range commands.Catalog().Definitions() {
		registered := filter.Keep(def)
		if !registered && !all {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", def.QualifiedName(), def.Kind, callbackColumn(def), registered)
	}
	return tw.Flush()
}

func callbackColumn(def command.Definition) string {
	i, ok := def.Callback.Index()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("arg %d", i)
}
