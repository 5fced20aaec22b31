package routes

import (
	"carclub/paddock/internal/api"
	"carclub/paddock/internal/auth"
	"carclub/paddock/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes. Every route needs a bearer
// token; authorization happens inside the services.
func RegisterAPIRoutes(r chi.Router, tokens *auth.TokenProvider, deps *api.Dependencies, handlers *api.Handlers) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(tokens, deps.Store.Users))

		v1.Put("/users/{userID}/site-role", handlers.UpdateSiteRole())

		v1.Post("/clubs", handlers.CreateClub())
		v1.Route("/clubs/{clubID}", func(club chi.Router) {
			club.Get("/", handlers.GetClub())
			club.Put("/", handlers.UpdateClub())
			club.Get("/access", handlers.ClubAccess())
			club.Get("/permissions/{permission}", handlers.ClubPermission())

			// Membership
			club.Get("/members", handlers.ListMembers())
			club.Post("/members/bulk", handlers.BulkMemberAction())
			club.Put("/members/{userID}/role", handlers.UpdateRole())
			club.Delete("/members/{userID}", handlers.RemoveMember())
			club.Post("/join-requests", handlers.RequestJoin())
			club.Get("/join-requests", handlers.ListJoinRequests())

			// Moderation
			club.Post("/bans", handlers.Ban())
			club.Get("/bans/{userID}", handlers.BanStatus())
			club.Delete("/bans/{userID}", handlers.Unban())

			// Ledger
			club.Post("/events", handlers.CreateEvent())
			club.Get("/fees", handlers.ClubFeeReport())
		})

		v1.Post("/join-requests/{requestID}/review", handlers.ReviewJoinRequest())

		v1.Route("/events/{eventID}", func(ev chi.Router) {
			ev.Get("/", handlers.GetEvent())
			ev.Put("/status", handlers.UpdateEventStatus())
			ev.Post("/entries", handlers.RegisterEventEntry())
			ev.Get("/fees", handlers.EventFees())
			ev.Post("/challenges", handlers.CreateChallenge())
		})

		v1.Route("/challenges/{challengeID}", func(ch chi.Router) {
			ch.Put("/status", handlers.UpdateChallengeStatus())
			ch.Post("/entries", handlers.RegisterChallengeEntry())
			ch.Get("/bonus-pool", handlers.BonusPool())
			ch.Post("/complete", handlers.CompleteChallenge())
			ch.Get("/settlement", handlers.GetSettlement())
		})
	})
}
