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

// ListMembers handles GET /api/v1/clubs/{clubID}/members
func (h *Handlers) ListMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		members, err := h.deps.Services.Members.ListMembers(r.Context(), p.UserID, chi.URLParam(r, "clubID"))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}

		out := make([]dtos.MembershipResponse, 0, len(members))
		for i := range members {
			out = append(out, toMembershipResponse(&members[i]))
		}
		common.RespondSuccess(w, initTime, "Members fetched", out)
	}
}

// RequestJoin handles POST /api/v1/clubs/{clubID}/join-requests
func (h *Handlers) RequestJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.JoinClubReq
		if !decode(w, r, initTime, &req) {
			return
		}

		jr, err := h.deps.Services.Members.RequestJoin(r.Context(), p.UserID, chi.URLParam(r, "clubID"), req.Message)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Join request filed", toJoinRequestResponse(jr), http.StatusCreated)
	}
}

// ListJoinRequests handles GET /api/v1/clubs/{clubID}/join-requests
func (h *Handlers) ListJoinRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		reqs, err := h.deps.Services.Members.ListJoinRequests(r.Context(), p.UserID, chi.URLParam(r, "clubID"))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}

		out := make([]dtos.JoinRequestResponse, 0, len(reqs))
		for i := range reqs {
			out = append(out, toJoinRequestResponse(&reqs[i]))
		}
		common.RespondSuccess(w, initTime, "Join requests fetched", out)
	}
}

// ReviewJoinRequest handles POST /api/v1/join-requests/{requestID}/review
func (h *Handlers) ReviewJoinRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.ReviewJoinRequestReq
		if !decode(w, r, initTime, &req) {
			return
		}

		jr, err := h.deps.Services.Members.ReviewJoinRequest(r.Context(), p.UserID, chi.URLParam(r, "requestID"), constants.ReviewDecision(req.Decision))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Join request reviewed", toJoinRequestResponse(jr))
	}
}

// UpdateRole handles PUT /api/v1/clubs/{clubID}/members/{userID}/role
func (h *Handlers) UpdateRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.UpdateRoleReq
		if !decode(w, r, initTime, &req) {
			return
		}

		m, err := h.deps.Services.Members.UpdateRole(r.Context(), p.UserID, chi.URLParam(r, "clubID"), chi.URLParam(r, "userID"), constants.ClubRole(req.Role))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Role updated", toMembershipResponse(m))
	}
}

// RemoveMember handles DELETE /api/v1/clubs/{clubID}/members/{userID}
func (h *Handlers) RemoveMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		if err := h.deps.Services.Members.RemoveMember(r.Context(), p.UserID, chi.URLParam(r, "clubID"), chi.URLParam(r, "userID")); err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Member removed", nil)
	}
}

// BulkMemberAction handles POST /api/v1/clubs/{clubID}/members/bulk
func (h *Handlers) BulkMemberAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.BulkMemberActionReq
		if !decode(w, r, initTime, &req) {
			return
		}

		results, err := h.deps.Services.Members.BulkMemberAction(
			r.Context(),
			p.UserID,
			chi.URLParam(r, "clubID"),
			constants.BulkAction(req.Action),
			req.UserIDs,
			services.BanParams{Reason: req.Reason, Permanent: req.Permanent, DurationDays: req.DurationDays},
		)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}

		out := make([]dtos.BulkResultResponse, 0, len(results))
		for _, res := range results {
			item := dtos.BulkResultResponse{UserID: res.UserID, Success: res.Success}
			if res.Err != nil {
				item.ErrorKind = string(common.KindOf(res.Err))
				item.Message = "internal error"
				if common.KindOf(res.Err) != common.KindInternal {
					item.Message = res.Err.Error()
				}
			}
			out = append(out, item)
		}
		common.RespondSuccess(w, initTime, "Bulk action processed", out)
	}
}

// Ban handles POST /api/v1/clubs/{clubID}/bans
func (h *Handlers) Ban() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.BanReq
		if !decode(w, r, initTime, &req) {
			return
		}
		if req.UserID == "" {
			common.RespondBadRequest(w, initTime, "user_id is required")
			return
		}

		ban, err := h.deps.Services.Members.Ban(r.Context(), p.UserID, chi.URLParam(r, "clubID"), req.UserID, services.BanParams{
			Reason:       req.Reason,
			Permanent:    req.Permanent,
			DurationDays: req.DurationDays,
		})
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User banned", toBanResponse(ban), http.StatusCreated)
	}
}

// Unban handles DELETE /api/v1/clubs/{clubID}/bans/{userID}
func (h *Handlers) Unban() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		if err := h.deps.Services.Members.Unban(r.Context(), p.UserID, chi.URLParam(r, "clubID"), chi.URLParam(r, "userID")); err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User unbanned", nil)
	}
}

// BanStatus handles GET /api/v1/clubs/{clubID}/bans/{userID}
func (h *Handlers) BanStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		if _, ok := principal(w, r); !ok {
			return
		}
		clubID := chi.URLParam(r, "clubID")
		userID := chi.URLParam(r, "userID")

		banned, ban, err := h.deps.Services.Members.IsBanned(r.Context(), userID, clubID)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Ban status resolved", dtos.BanStatusResponse{
			UserID: userID,
			ClubID: clubID,
			Banned: banned,
			Ban:    toBanResponse(ban),
		})
	}
}
