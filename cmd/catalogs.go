package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ritter-digital/leads-cli/internal/store"
)

var catalogsCmd = &cobra.Command{
	Use:   "catalogs",
	Short: "List the category and state catalogs with lead counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var (
			categories []store.CategoryCount
			states     []store.StateCount
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			categories, err = env.Store.ListCategories(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			states, err = env.Store.ListStates(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tLEADS")
		for _, c := range categories {
			fmt.Fprintf(w, "%s\t%d\n", c.Category, c.Total)
		}
		fmt.Fprintln(w, "\nSTATE\tCOUNTRY\tLEADS")
		for _, s := range states {
			fmt.Fprintf(w, "%s\t%s\t%d\n", s.State, s.Country, s.Total)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogsCmd)
}
