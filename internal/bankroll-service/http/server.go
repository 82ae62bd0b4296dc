package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/betflow/bankroll-tracker/internal/bankroll-service/http/dto"
	"github.com/betflow/bankroll-tracker/internal/bankroll-service/state"
	"github.com/betflow/bankroll-tracker/pkg/contracts/records"
)

// Analyzer é a fronteira do consultor: snapshot de apostas entra, texto sai.
type Analyzer interface {
	Analyze(ctx context.Context, bets []records.Bet) string
}

// Server expõe as operações do núcleo pro colaborador de UI via JSON.
type Server struct {
	log     *zap.Logger
	state   *state.Manager
	advisor Analyzer
}

func NewServer(log *zap.Logger, st *state.Manager, adv Analyzer) *Server {
	return &Server{log: log, state: st, advisor: adv}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/v1", func(r chi.Router) {
		r.Post("/bets", s.createBet)
		r.Get("/bets", s.listBets)
		r.Get("/bets/suggestion", s.suggestion)
		r.Delete("/bets/{id}", s.deleteBet)
		r.Put("/bets/{id}/status", s.updateBetStatus)

		r.Post("/objectives", s.createObjective)
		r.Get("/objectives", s.listObjectives)
		r.Delete("/objectives/{id}", s.deleteObjective)

		r.Get("/stats", s.stats)
		r.Get("/stats/timeline", s.timeline)

		r.Post("/analysis", s.analyze)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}

	b, err := s.state.AddBet(r.Context(), state.BetInput{
		Date:        req.Date,
		Teams:       req.Teams,
		StakeCents:  req.StakeCents,
		Odds:        req.Odds,
		IsCascade:   req.IsCascade,
		ObjectiveID: req.ObjectiveID,
	})
	if err != nil {
		if errors.Is(err, state.ErrInvalidBet) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		s.log.Error("create bet", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "persistence failed"})
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Bets())
}

func (s *Server) deleteBet(w http.ResponseWriter, r *http.Request) {
	// delete de id desconhecido é no-op, idempotente por contrato
	if err := s.state.DeleteBet(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.log.Error("delete bet", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "persistence failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateBetStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}

	b, found, err := s.state.SetBetStatus(r.Context(), chi.URLParam(r, "id"), records.Status(req.Status))
	if err != nil {
		if errors.Is(err, state.ErrInvalidBet) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		s.log.Error("update bet status", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "persistence failed"})
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (s *Server) suggestion(w http.ResponseWriter, r *http.Request) {
	var resp dto.SuggestionResponse
	if cents, ok := s.state.Suggestion(); ok {
		resp.StakeCents = &cents
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createObjective(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateObjectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}

	o, err := s.state.AddObjective(r.Context(), state.ObjectiveInput{
		Name:         req.Name,
		InitialCents: req.InitialCents,
		TargetCents:  req.TargetCents,
	})
	if err != nil {
		if errors.Is(err, state.ErrInvalidObjective) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		s.log.Error("create objective", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "persistence failed"})
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) listObjectives(w http.ResponseWriter, r *http.Request) {
	progress := s.state.ObjectivesProgress()

	out := make([]dto.ObjectiveProgressResponse, 0, len(progress))
	for _, p := range progress {
		item := dto.ObjectiveProgressResponse{
			Objective:      p.Objective,
			CurrentCents:   p.Progress.CurrentCents,
			RemainingCents: p.Progress.RemainingCents,
		}
		if p.Progress.Percent.Defined {
			v := p.Progress.Percent.Value
			item.ProgressPercent = &v
		}
		if p.Progress.EstimatedBets.Defined {
			n := p.Progress.EstimatedBets.Bets
			item.EstimatedBets = &n
		}
		out = append(out, item)
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteObjective(w http.ResponseWriter, r *http.Request) {
	if err := s.state.DeleteObjective(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.log.Error("delete objective", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "persistence failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	sum := s.state.Summary()
	writeJSON(w, http.StatusOK, dto.StatsResponse{
		TotalBets:        sum.TotalBets,
		TotalProfitCents: sum.TotalProfitCents,
		WinRate:          sum.WinRate,
	})
}

func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	series := s.state.TimeSeries()

	out := make([]dto.TimelinePoint, 0, len(series))
	for _, p := range series {
		out = append(out, dto.TimelinePoint{Label: p.Label, RunningCents: p.RunningCents})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	// lê um snapshot e segue; a resposta pode chegar depois de outra mutação
	text := s.advisor.Analyze(r.Context(), s.state.Bets())
	writeJSON(w, http.StatusOK, dto.AnalysisResponse{Analysis: text})
}
