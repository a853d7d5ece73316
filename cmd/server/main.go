package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/vectra/vectra/engine-go/internal/api"
	"github.com/vectra/vectra/engine-go/internal/config"
	mw "github.com/vectra/vectra/engine-go/internal/middleware"
	"github.com/vectra/vectra/engine-go/internal/session"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	tokens := session.NewService(cfg.SessionSecret)
	handler := api.NewHandler(tokens, cfg.HistoryCapacity, cfg.SnapThreshold)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session lifecycle (public)
	r.HandleFunc("/session", handler.CreateSession).Methods("POST", "OPTIONS")

	// Stateless compile endpoint, public, used by the live preview
	r.HandleFunc("/compile", handler.Compile).Methods("POST", "OPTIONS")

	// Per-session API
	s := r.PathPrefix("/sessions/{sessionId}").Subrouter()
	s.HandleFunc("/snap/index", handler.BuildIndex).Methods("POST", "OPTIONS")
	s.HandleFunc("/snap/query", handler.SnapQuery).Methods("POST", "OPTIONS")
	s.HandleFunc("/grid/convert", handler.GridConvert).Methods("POST", "OPTIONS")
	s.HandleFunc("/history/commit", handler.Commit).Methods("POST", "OPTIONS")
	s.HandleFunc("/history/undo", handler.Undo).Methods("POST", "OPTIONS")
	s.HandleFunc("/history/redo", handler.Redo).Methods("POST", "OPTIONS")
	s.HandleFunc("/history", handler.HistoryStatus).Methods("GET")
	s.HandleFunc("/nodes/instantiate", handler.Instantiate).Methods("POST", "OPTIONS")
	s.HandleFunc("/nodes/{nodeId}", handler.DeleteNode).Methods("DELETE", "OPTIONS")
	s.HandleFunc("/export/react", handler.ExportReact).Methods("GET")

	// WebSocket drag stream
	r.HandleFunc("/ws/session/{sessionId}", handler.HandleDragSocket(api.Origins(cfg.AllowedOrigins)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
