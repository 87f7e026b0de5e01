package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ritter-digital/leads-cli/internal/campaign"
	"github.com/ritter-digital/leads-cli/internal/model"
	"github.com/ritter-digital/leads-cli/internal/search"
	"github.com/ritter-digital/leads-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/search", func(w http.ResponseWriter, req *http.Request) {
			var filters model.SearchFilters
			if err := json.NewDecoder(req.Body).Decode(&filters); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}

			result, err := env.Engine.Search(req.Context(), filters)
			if err != nil {
				var qe *search.QueryError
				if errors.As(err, &qe) {
					zap.L().Error("search query failed", zap.String("strategy", qe.Strategy), zap.Error(err))
					writeJSON(w, http.StatusBadGateway, map[string]string{"error": "lead store unavailable"})
					return
				}
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
				return
			}

			writeJSON(w, http.StatusOK, result)
		})

		r.Post("/api/campaigns", func(w http.ResponseWriter, req *http.Request) {
			var cr campaign.Request
			if err := json.NewDecoder(req.Body).Decode(&cr); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if len(cr.Recipients) == 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "recipients are required"})
				return
			}
			if cr.SenderEmail == "" {
				cr.SenderEmail = cfg.Campaign.SenderEmail
				cr.SenderName = cfg.Campaign.SenderName
			}

			result, err := env.Dispatcher.SendCampaign(req.Context(), cr)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "campaign dispatch interrupted"})
				return
			}

			writeJSON(w, http.StatusOK, result)
		})

		r.Get("/api/catalogs", func(w http.ResponseWriter, req *http.Request) {
			categories, err := env.Store.ListCategories(req.Context())
			if err != nil {
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": "lead store unavailable"})
				return
			}
			states, err := env.Store.ListStates(req.Context())
			if err != nil {
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": "lead store unavailable"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"categories": orEmptyCategories(categories),
				"states":     orEmptyStates(states),
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func orEmptyCategories(c []store.CategoryCount) []store.CategoryCount {
	if c == nil {
		return []store.CategoryCount{}
	}
	return c
}

func orEmptyStates(s []store.StateCount) []store.StateCount {
	if s == nil {
		return []store.StateCount{}
	}
	return s
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
