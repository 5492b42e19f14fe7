package cmd

import (
	"fmt"

	"github.com/fulmenhq/catgen/internal/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the category data file",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "Print the saved categories and their counts",
		Args:  cobra.NoArgs,
		RunE:  runCatalogList,
	}
	list.Flags().Bool("format-json", false, "Print the catalog as JSON")
	cmd.AddCommand(list)
	return cmd
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("format-json")
	out := cmd.OutOrStdout()

	c, found, err := catalog.Load(cfg.DataFilePath())
	if err != nil {
		return err
	}
	if !found {
		if asJSON {
			_, err := fmt.Fprintln(out, "[]")
			return err
		}
		_, err := fmt.Fprintf(out, "No category data file at %s\n", cfg.DataFilePath())
		return err
	}

	if asJSON {
		data, err := catalog.Marshal(c)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	return catalog.WriteTable(out, c)
}
