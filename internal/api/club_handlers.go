package api

import (
	"net/http"
	"time"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// CreateClub handles POST /api/v1/clubs
func (h *Handlers) CreateClub() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.CreateClubReq
		if !decode(w, r, initTime, &req) {
			return
		}

		club, err := h.deps.Services.Clubs.CreateClub(r.Context(), p.UserID, req.Name, req.IsPrivate)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Club created", toClubResponse(club), http.StatusCreated)
	}
}

// GetClub handles GET /api/v1/clubs/{clubID}
func (h *Handlers) GetClub() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		club, err := h.deps.Services.Clubs.GetClub(r.Context(), p.UserID, chi.URLParam(r, "clubID"))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Club fetched", toClubResponse(club))
	}
}

// UpdateClub handles PUT /api/v1/clubs/{clubID}
func (h *Handlers) UpdateClub() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.UpdateClubReq
		if !decode(w, r, initTime, &req) {
			return
		}

		club, err := h.deps.Services.Clubs.UpdateClub(r.Context(), p.UserID, chi.URLParam(r, "clubID"), req.Name, req.IsPrivate)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Club updated", toClubResponse(club))
	}
}

// ClubAccess handles GET /api/v1/clubs/{clubID}/access
func (h *Handlers) ClubAccess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}
		clubID := chi.URLParam(r, "clubID")

		allowed, err := h.deps.Services.Clubs.CanAccessClub(r.Context(), p.UserID, clubID)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Access resolved", dtos.AccessResponse{ClubID: clubID, Allowed: allowed})
	}
}

// ClubPermission handles GET /api/v1/clubs/{clubID}/permissions/{permission}
func (h *Handlers) ClubPermission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}
		clubID := chi.URLParam(r, "clubID")
		perm := constants.Permission(chi.URLParam(r, "permission"))

		allowed, err := h.deps.Services.Clubs.CanActClub(r.Context(), p.UserID, clubID, perm)
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Permission resolved", dtos.AccessResponse{
			ClubID:     clubID,
			Permission: string(perm),
			Allowed:    allowed,
		})
	}
}

// UpdateSiteRole handles PUT /api/v1/users/{userID}/site-role
func (h *Handlers) UpdateSiteRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		p, ok := principal(w, r)
		if !ok {
			return
		}

		var req dtos.UpdateSiteRoleReq
		if !decode(w, r, initTime, &req) {
			return
		}

		user, err := h.deps.Services.Clubs.UpdateSiteRole(r.Context(), p.UserID, chi.URLParam(r, "userID"), constants.SiteRole(req.Role))
		if err != nil {
			common.RespondError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Site role updated", toUserResponse(user))
	}
}
