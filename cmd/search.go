package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ritter-digital/leads-cli/internal/model"
)

var (
	searchClientTypes []string
	searchLocations   []string
	searchNeedWebsite bool
	searchNeedEmail   bool
	searchNeedPhone   bool
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search leads with mapped filters and the fallback cascade",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		filters := model.SearchFilters{
			ClientTypes:    searchClientTypes,
			Locations:      searchLocations,
			RequireWebsite: searchNeedWebsite,
			RequireEmail:   searchNeedEmail,
			RequirePhone:   searchNeedPhone,
		}

		result, err := env.Engine.Search(ctx, filters)
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if result.Broadened {
			fmt.Printf("Note: no exact matches; showing broadened results (%s)\n\n", result.Strategy)
		}
		if len(result.Leads) == 0 {
			fmt.Println("No leads matched the given filters.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COMPANY\tEMAIL\tPHONE\tLOCATION\tCATEGORY\tCONF")
		for _, l := range result.Leads {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
				l.CompanyName, l.Email, l.Phone, l.Location, l.Category, l.Confidence)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		zap.L().Info("search complete",
			zap.Int("leads", len(result.Leads)),
			zap.String("strategy", result.Strategy),
			zap.Bool("broadened", result.Broadened),
		)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchClientTypes, "client-type", nil, "client type tags (repeatable)")
	searchCmd.Flags().StringSliceVar(&searchLocations, "location", nil, `location tags (repeatable, "all" disables location filtering)`)
	searchCmd.Flags().BoolVar(&searchNeedWebsite, "require-website", false, "only leads with a website")
	searchCmd.Flags().BoolVar(&searchNeedEmail, "require-email", false, "only leads with a verified email")
	searchCmd.Flags().BoolVar(&searchNeedPhone, "require-phone", false, "only leads with a verified phone")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(searchCmd)
}
