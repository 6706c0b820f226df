package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"monetto/internal/core"
)

type addTransactionRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	IsIncome bool    `json:"isIncome"`
}

type setLimitRequest struct {
	Category string      `json:"category"`
	Limit    float64     `json:"limit"`
	Period   core.Period `json:"period"`
}

type addGoalRequest struct {
	Name         string      `json:"name"`
	TargetAmount float64     `json:"targetAmount"`
	SavedAmount  float64     `json:"savedAmount"`
	Deadline     int64       `json:"deadline"`
	ColorHex     string      `json:"colorHex"`
	Icon         string      `json:"icon"`
	PeriodUnit   core.Period `json:"periodUnit"`
}

type adjustGoalRequest struct {
	GoalID int64   `json:"goalId"`
	Amount float64 `json:"amount"`
}

type setCurrencyRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	transactions, err := s.ledger.Transactions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	if raw := r.URL.Query().Get("period"); raw != "" {
		period, err := periodFromQuery(r)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "unknown period")
			return
		}
		transactions = core.FilterByPeriod(transactions, period, s.ledger.Now())
	}

	c := s.ledger.Currency()
	out := make([]core.Transaction, len(transactions))
	for i, t := range transactions {
		t.Amount = c.ToDisplay(t.Amount)
		out[i] = t
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Invalid input never reaches the ledger; no partial write can occur.
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name must not be blank")
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusUnprocessableEntity, "category must not be blank")
		return
	}
	if err := core.ValidateAmount(req.Amount); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount must be a positive number")
		return
	}

	t, err := s.ledger.AddTransaction(ctx, req.Name, req.Category, req.Amount, req.IsIncome)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to add transaction", "error", err, "name", req.Name)
		writeError(w, http.StatusInternalServerError, "failed to add transaction")
		return
	}

	t.Amount = s.ledger.Currency().ToDisplay(t.Amount)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		limits, err := s.ledger.Limits(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load limits", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load limits")
			return
		}
		c := s.ledger.Currency()
		out := make([]core.CategoryLimit, len(limits))
		for i, l := range limits {
			l.LimitAmount = c.ToDisplay(l.LimitAmount)
			out[i] = l
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req setLimitRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Category) == "" {
			writeError(w, http.StatusUnprocessableEntity, "category must not be blank")
			return
		}
		if err := core.ValidateAmount(req.Limit); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "limit must be a positive number")
			return
		}
		if err := core.ValidateLimitPeriod(req.Period); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "period must be Week, Month or Year")
			return
		}

		limit, err := s.ledger.SetLimit(ctx, req.Category, req.Limit, req.Period)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to set limit", "error", err, "category", req.Category)
			writeError(w, http.StatusInternalServerError, "failed to set limit")
			return
		}
		limit.LimitAmount = s.ledger.Currency().ToDisplay(limit.LimitAmount)
		writeJSON(w, http.StatusCreated, limit)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		statuses, err := s.ledger.GoalStatuses(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load goals", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load goals")
			return
		}
		writeJSON(w, http.StatusOK, statuses)

	case http.MethodPost:
		var req addGoalRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		goal := core.Goal{
			Name:         req.Name,
			TargetAmount: req.TargetAmount,
			SavedAmount:  req.SavedAmount,
			Deadline:     req.Deadline,
			ColorHex:     req.ColorHex,
			Icon:         req.Icon,
			PeriodUnit:   req.PeriodUnit,
		}
		if err := goal.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		created, err := s.ledger.AddGoal(ctx, goal)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to add goal", "error", err, "name", req.Name)
			writeError(w, http.StatusInternalServerError, "failed to add goal")
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleAdjustGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	ctx := r.Context()

	var req adjustGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == 0 {
		writeError(w, http.StatusUnprocessableEntity, "amount must not be zero")
		return
	}

	goal, err := s.ledger.AdjustGoal(ctx, req.GoalID, req.Amount)
	if errors.Is(err, core.ErrGoalNotFound) {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to adjust goal", "error", err, "goal_id", req.GoalID)
		writeError(w, http.StatusInternalServerError, "failed to adjust goal")
		return
	}

	c := s.ledger.Currency()
	goal.TargetAmount = c.ToDisplay(goal.TargetAmount)
	goal.SavedAmount = c.ToDisplay(goal.SavedAmount)
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.Currency())

	case http.MethodPut:
		var req setCurrencyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !core.KnownCurrency(req.Code) {
			writeError(w, http.StatusUnprocessableEntity, "unknown currency code")
			return
		}

		c, err := s.ledger.SetDisplayCurrency(r.Context(), req.Code)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to set currency", "error", err, "code", req.Code)
			writeError(w, http.StatusInternalServerError, "failed to set currency")
			return
		}
		writeJSON(w, http.StatusOK, c)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, core.Currencies())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	period, err := periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown period")
		return
	}

	dash, err := s.ledger.Dashboard(r.Context(), period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	period, err := periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown period")
		return
	}

	report, err := s.ledger.Report(r.Context(), period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build report", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
