package api

import (
	"net/http"
	"time"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/models/dtos"
	"carclub/paddock/internal/services"

	"github.com/go-chi/chi/v5"
)

// CreateEvent handles POST /api/v1/clubs/{clubID}/events
func (h *Handlers) CreateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.CreateEventReq
		if !decode(w, r, initTime, &req) {
			return
		}

		ev, err := h.deps.Services.Ledger.CreateEvent(r.Context(), p.UserID, chi.URLParam(r, "clubID"), services.EventParams{
			Title:        req.Title,
			EntryFeeUSD:  req.EntryFeeUSD,
			MaxAttendees: req.MaxAttendees,
			IsPublic:     req.IsPublic,
		})
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Event created", toEventResponse(ev), http.StatusCreated)
	}
}

// GetEvent handles GET /api/v1/events/{eventID}
func (h *Handlers) GetEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		ev, err := h.deps.Services.Ledger.GetEvent(r.Context(), p.UserID, chi.URLParam(r, "eventID"))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Event fetched", toEventResponse(ev))
	}
}

// UpdateEventStatus handles PUT /api/v1/events/{eventID}/status
func (h *Handlers) UpdateEventStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.UpdateStatusReq
		if !decode(w, r, initTime, &req) {
			return
		}

		ev, err := h.deps.Services.Ledger.UpdateEventStatus(r.Context(), p.UserID, chi.URLParam(r, "eventID"), constants.EventStatus(req.Status))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Event status updated", toEventResponse(ev))
	}
}

// RegisterEventEntry handles POST /api/v1/events/{eventID}/entries
func (h *Handlers) RegisterEventEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		entry, err := h.deps.Services.Ledger.RegisterEventEntry(r.Context(), p.UserID, chi.URLParam(r, "eventID"))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Entry registered", toEventEntryResponse(entry), http.StatusCreated)
	}
}

// EventFees handles GET /api/v1/events/{eventID}/fees
func (h *Handlers) EventFees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		if _, ok := principal(w, r); !ok {
			return
		}
		eventID := chi.URLParam(r, "eventID")

		total, err := h.deps.Services.Ledger.AggregateEventFees(r.Context(), eventID)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Event fees aggregated", dtos.AmountResponse{ID: eventID, AmountUSD: total})
	}
}

// ClubFeeReport handles GET /api/v1/clubs/{clubID}/fees
func (h *Handlers) ClubFeeReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		report, err := h.deps.Services.Ledger.FeeReport(r.Context(), p.UserID, chi.URLParam(r, "clubID"))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Fee report generated", report)
	}
}

// CreateChallenge handles POST /api/v1/events/{eventID}/challenges
func (h *Handlers) CreateChallenge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.CreateChallengeReq
		if !decode(w, r, initTime, &req) {
			return
		}

		ch, err := h.deps.Services.Ledger.CreateChallenge(r.Context(), p.UserID, chi.URLParam(r, "eventID"), services.ChallengeParams{
			Title:                       req.Title,
			EntryFeeUSD:                 req.EntryFeeUSD,
			BonusPoolPercentOfEventFees: req.BonusPoolPercentOfEventFees,
		})
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Challenge created", toChallengeResponse(ch), http.StatusCreated)
	}
}

// UpdateChallengeStatus handles PUT /api/v1/challenges/{challengeID}/status
func (h *Handlers) UpdateChallengeStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.UpdateStatusReq
		if !decode(w, r, initTime, &req) {
			return
		}

		ch, err := h.deps.Services.Ledger.UpdateChallengeStatus(r.Context(), p.UserID, chi.URLParam(r, "challengeID"), constants.ChallengeStatus(req.Status))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Challenge status updated", toChallengeResponse(ch))
	}
}

// RegisterChallengeEntry handles POST /api/v1/challenges/{challengeID}/entries
func (h *Handlers) RegisterChallengeEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		entry, err := h.deps.Services.Ledger.RegisterChallengeEntry(r.Context(), p.UserID, chi.URLParam(r, "challengeID"))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Entry registered", toChallengeEntryResponse(entry), http.StatusCreated)
	}
}
