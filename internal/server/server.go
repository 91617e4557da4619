// Package server exposes the signed interactions endpoint over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/franswap/bot-discord-immobilier/internal/interaction"
	"github.com/franswap/bot-discord-immobilier/internal/verify"
)

const InteractionsPath = "/interactions"

// Dispatcher is satisfied by *interaction.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, in *interaction.Interaction) *discordgo.InteractionResponse
}

// NewRouter mounts the interactions endpoint behind signature verification.
func NewRouter(v *verify.Verifier, d Dispatcher, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Group(func(r chi.Router) {
		if timeout > 0 {
			r.Use(chiMiddleware.Timeout(timeout))
		}
		r.Use(v.Middleware)
		r.Post(InteractionsPath, interactionsHandler(d))
	})
	return r
}

func interactionsHandler(d Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "could not read body", http.StatusBadRequest)
			return
		}
		in, err := interaction.Decode(body)
		if err != nil {
			log.Warn().Err(err).Str("request_id", chiMiddleware.GetReqID(r.Context())).Msg("Bad interaction payload")
			http.Error(w, "invalid interaction payload", http.StatusBadRequest)
			return
		}

		resp := d.Dispatch(r.Context(), in)
		if err := r.Context().Err(); err != nil {
			// The timeout middleware owns the response once the deadline has passed.
			log.Warn().Err(err).Str("interaction", in.ID).Msg("Interaction handled after the request ended, reply dropped")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

// New wraps handler in an http.Server listening on addr.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Interactions server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down interactions server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
