package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dgnsrekt/barcache/internal/api"
	"github.com/dgnsrekt/barcache/internal/bars"
	"github.com/dgnsrekt/barcache/internal/loader"
	"github.com/dgnsrekt/barcache/internal/storage"
)

// BarService is the loader surface the HTTP handlers use.
type BarService interface {
	FileName(req bars.Request) string
	Load(ctx context.Context, req bars.Request) (*bars.Table, error)
	Plan(req bars.Request) (loader.Plan, error)
}

type Server struct {
	bars   BarService
	store  *storage.Store
	logger *zap.Logger
}

func NewServer(svc BarService, store *storage.Store, logger *zap.Logger) *Server {
	return &Server{
		bars:   svc,
		store:  store,
		logger: logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type barsResponse struct {
	File string     `json:"file"`
	Rows int        `json:"rows"`
	Bars []bars.Bar `json:"bars"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ListCache(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []storage.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	plan, err := s.bars.Plan(req)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) GetBars(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	table, err := s.bars.Load(r.Context(), req)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	rows := table.Bars
	if rows == nil {
		rows = []bars.Bar{}
	}
	writeJSON(w, http.StatusOK, barsResponse{
		File: s.bars.FileName(req),
		Rows: len(rows),
		Bars: rows,
	})
}

// parseRequest reads symbols, years and timeframe from the query string.
// Missing symbols yield an empty list, years defaults to 0 and timeframe to 1Day.
func parseRequest(r *http.Request) (bars.Request, error) {
	q := r.URL.Query()

	var tickers []string
	if raw := q.Get("symbols"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				tickers = append(tickers, s)
			}
		}
	}

	years := 0
	if raw := q.Get("years"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return bars.Request{}, fmt.Errorf("invalid years %q", raw)
		}
		years = n
	}

	tf := bars.Day
	if raw := q.Get("timeframe"); raw != "" {
		parsed, err := bars.ParseTimeFrame(raw)
		if err != nil {
			return bars.Request{}, err
		}
		tf = parsed
	}

	req := bars.Request{Tickers: tickers, Years: years, TimeFrame: tf}
	if err := req.Validate(); err != nil {
		return bars.Request{}, err
	}
	return req, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bars.ErrInvalidYears), errors.Is(err, bars.ErrInvalidTimeFrame):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrAuthFailed):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, loader.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
