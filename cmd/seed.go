package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ritter-digital/leads-cli/internal/model"
	"github.com/ritter-digital/leads-cli/internal/store"
)

var seedCount int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate a local SQLite store with demo leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Store.Driver != "sqlite" {
			return eris.New("seed only supports the sqlite driver; production ingestion is external")
		}

		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		categories := []string{
			"Instalación Fotovoltaica", "Energía Solar Residencial", "Construcción y Reformas",
			"Hotel Rural", "Restaurante", "Clínica Dental", "Taller Mecánico",
			"Consultoría Informática", "Transporte y Logística", "Climatización Industrial",
		}
		states := []string{"Madrid", "Barcelona", "Valencia", "Sevilla", "Bilbao", "Zaragoza"}

		for i := 0; i < seedCount; i++ {
			score := rand.IntN(5) + 1
			lead := model.StoreLead{
				Email:            fmt.Sprintf("contacto%d@example.es", i),
				VerifiedEmail:    score >= 3,
				Phone:            fmt.Sprintf("+34 6%08d", i),
				VerifiedPhone:    score >= 4,
				CompanyName:      fmt.Sprintf("Empresa Demo %d S.L.", i),
				CompanyWebsite:   fmt.Sprintf("https://empresa%d.example.es", i),
				VerifiedWebsite:  score == 5,
				State:            states[rand.IntN(len(states))],
				Country:          "España",
				Category:         categories[rand.IntN(len(categories))],
				Activity:         "Demo",
				DataQualityScore: score,
			}
			if _, err := st.InsertLead(ctx, lead); err != nil {
				return err
			}
		}

		zap.L().Info("seeded demo leads", zap.Int("count", seedCount))
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 100, "number of demo leads to insert")
	rootCmd.AddCommand(seedCmd)
}
