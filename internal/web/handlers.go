package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"pnl-research/internal/domain"
	"pnl-research/internal/export"
	"pnl-research/internal/store"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// apiOK writes a JSON success response.
func apiOK(w http.ResponseWriter, payload map[string]any) {
	payload["success"] = true
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	apiOK(w, map[string]any{
		"status":  "ok",
		"service": s.appName,
		"version": s.appVersion,
		"stats":   s.svc.Stats(),
		"clients": s.hub.ClientCount(),
	})
}

// handleKline serves the stored series for a token. Reads go through the
// store's load path only: during a concurrent sync the reader sees either
// the previous complete document or the new one, never a mix.
func (s *Server) handleKline(w http.ResponseWriter, r *http.Request) {
	mint := r.PathValue("token")
	if mint == "" {
		apiError(w, http.StatusBadRequest, "token address required")
		return
	}

	interval, err := domain.ParseInterval(r.URL.Query().Get("interval"))
	if err != nil {
		apiError(w, http.StatusBadRequest, err.Error())
		return
	}

	bars := store.LoadSeries(s.svc.Paths().KlinePath(mint))
	apiOK(w, map[string]any{
		"token":    mint,
		"interval": string(interval),
		"data":     bars,
	})
}

// handleTrades serves the stored trade markers for a wallet, optionally
// filtered by token mint.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	wallet := r.PathValue("wallet")
	if wallet == "" {
		apiError(w, http.StatusBadRequest, "wallet address required")
		return
	}

	trades := store.LoadTrades(s.svc.Paths().TradesPath(wallet))
	if mint := r.URL.Query().Get("token"); mint != "" {
		filtered := trades[:0]
		for _, t := range trades {
			if t.TokenMint == mint {
				filtered = append(filtered, t)
			}
		}
		trades = filtered
	}

	apiOK(w, map[string]any{
		"wallet": wallet,
		"data":   trades,
	})
}

type syncRequest struct {
	Token    string `json:"token"`
	Interval string `json:"interval"`
	Hours    int    `json:"hours"`
}

// handleSync triggers an on-demand sync for one token.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Token == "" {
		apiError(w, http.StatusBadRequest, "token address required")
		return
	}

	interval, err := domain.ParseInterval(req.Interval)
	if err != nil {
		apiError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Hours <= 0 {
		req.Hours = 24
	}

	merged, err := s.svc.SyncToken(r.Context(), req.Token, interval, time.Duration(req.Hours)*time.Hour)
	if err != nil {
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}

	apiOK(w, map[string]any{
		"token":    req.Token,
		"interval": string(interval),
		"hours":    req.Hours,
		"bars":     len(merged),
	})
}

// handleExport writes the stored series for a token to the export
// directory in the requested format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	mint := r.URL.Query().Get("token")
	if mint == "" {
		apiError(w, http.StatusBadRequest, "token address required")
		return
	}

	saver, err := export.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		apiError(w, http.StatusBadRequest, err.Error())
		return
	}

	paths := s.svc.Paths()
	bars := store.LoadSeries(paths.KlinePath(mint))
	if len(bars) == 0 {
		apiError(w, http.StatusNotFound, "no stored series for token")
		return
	}

	if err := ensureDir(paths.ExportDir()); err != nil {
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}
	base := strings.TrimSuffix(filepath.Base(paths.KlinePath(mint)), ".json")
	target := filepath.Join(paths.ExportDir(), fmt.Sprintf("%s.%s", base, saver.Extension()))

	if err := saver.Save(export.FromSeries(bars), target); err != nil {
		s.logger.Error("export failed", slog.String("mint", mint), slog.Any("error", err))
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}

	apiOK(w, map[string]any{
		"token": mint,
		"path":  target,
		"bars":  len(bars),
	})
}

// handleTokens lists the registry.
func (s *Server) handleTokens(w http.ResponseWriter, _ *http.Request) {
	tokens, err := s.registry.ListAllTokens()
	if err != nil {
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}
	apiOK(w, map[string]any{"data": tokens})
}
