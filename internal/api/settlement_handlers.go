package api

import (
	"net/http"
	"time"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// BonusPool handles GET /api/v1/challenges/{challengeID}/bonus-pool
func (h *Handlers) BonusPool() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		if _, ok := principal(w, r); !ok {
			return
		}
		challengeID := chi.URLParam(r, "challengeID")

		pool, err := h.deps.Services.Settlement.ComputeChallengeBonusPool(r.Context(), challengeID)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Bonus pool computed", dtos.AmountResponse{ID: challengeID, AmountUSD: pool})
	}
}

// CompleteChallenge handles POST /api/v1/challenges/{challengeID}/complete
func (h *Handlers) CompleteChallenge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.CompleteChallengeReq
		if !decode(w, r, initTime, &req) {
			return
		}

		st, err := h.deps.Services.Settlement.CompleteChallenge(r.Context(), p.UserID, chi.URLParam(r, "challengeID"), req.Winners)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Challenge completed", toSettlementResponse(st))
	}
}

// GetSettlement handles GET /api/v1/challenges/{challengeID}/settlement
func (h *Handlers) GetSettlement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		if _, ok := principal(w, r); !ok {
			return
		}

		st, err := h.deps.Services.Settlement.GetSettlement(r.Context(), chi.URLParam(r, "challengeID"))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Settlement fetched", toSettlementResponse(st))
	}
}
