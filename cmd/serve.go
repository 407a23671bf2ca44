package main

import (
	"encoding/json"
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

	"github.com/boligsjekk/boligsjekk/internal/model"
	"github.com/boligsjekk/boligsjekk/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP-API for analyse og chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(true)
		if err != nil {
			return eris.Wrap(err, "serve: init")
		}
		defer e.Close()

		if err := e.Store.Migrate(ctx); err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/analyze", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				URL  string `json:"url"`
				Full bool   `json:"full"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if body.URL == "" {
				writeError(w, http.StatusBadRequest, "url is required")
				return
			}

			var result *model.FullAnalysisResult
			if body.Full {
				result = e.Analyzer.FullAnalysis(req.Context(), body.URL)
			} else {
				analysis := e.Analyzer.Analyze(req.Context(), body.URL)
				result = &model.FullAnalysisResult{Analysis: *analysis}
			}

			if err := e.Store.SaveAnalysis(req.Context(), result); err != nil {
				zap.L().Warn("serve: save analysis failed", zap.Error(err))
			}

			writeJSON(w, http.StatusOK, result)
		})

		r.Get("/api/analyses", func(w http.ResponseWriter, req *http.Request) {
			results, err := e.Store.ListAnalyses(req.Context(), store.AnalysisFilter{
				SourceURL: req.URL.Query().Get("url"),
			})
			if err != nil {
				writeError(w, http.StatusInternalServerError, "list failed")
				return
			}
			writeJSON(w, http.StatusOK, results)
		})

		r.Get("/api/analyses/{id}", func(w http.ResponseWriter, req *http.Request) {
			result, err := e.Store.GetAnalysis(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeError(w, http.StatusInternalServerError, "lookup failed")
				return
			}
			if result == nil {
				writeError(w, http.StatusNotFound, "analysis not found")
				return
			}
			writeJSON(w, http.StatusOK, result)
		})

		r.Post("/api/chat", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				AnalysisID string `json:"analysis_id"`
				Message    string `json:"message"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if body.Message == "" {
				writeError(w, http.StatusBadRequest, "message is required")
				return
			}

			var (
				listing  *model.CanonicalListing
				extended *model.ExtendedAnalysis
				history  []model.ChatMessage
			)
			if body.AnalysisID != "" {
				saved, err := e.Store.GetAnalysis(req.Context(), body.AnalysisID)
				if err != nil {
					writeError(w, http.StatusInternalServerError, "lookup failed")
					return
				}
				if saved == nil {
					writeError(w, http.StatusNotFound, "analysis not found")
					return
				}
				listing = &saved.Analysis.Listing
				extended = saved.ExtendedAnalysis
				if history, err = e.Store.GetChatHistory(req.Context(), body.AnalysisID); err != nil {
					writeError(w, http.StatusInternalServerError, "history lookup failed")
					return
				}
			}

			reply := e.Assistant.BuildTurn(req.Context(), body.Message, listing, extended, history)

			if body.AnalysisID != "" {
				userMsg := model.ChatMessage{
					Role:      model.RoleUser,
					Content:   body.Message,
					Timestamp: reply.Timestamp,
				}
				if err := e.Store.AppendChatMessage(req.Context(), body.AnalysisID, userMsg); err != nil {
					zap.L().Warn("serve: append user message failed", zap.Error(err))
				}
				if err := e.Store.AppendChatMessage(req.Context(), body.AnalysisID, reply); err != nil {
					zap.L().Warn("serve: append reply failed", zap.Error(err))
				}
			}

			writeJSON(w, http.StatusOK, reply)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
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

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
