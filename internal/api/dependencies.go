package api

import (
	"time"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/services"
)

type Services struct {
	Clubs      *services.ClubService
	Members    *services.MembershipService
	Ledger     *services.LedgerService
	Settlement *services.SettlementService
}

type Dependencies struct {
	Store    *repositories.Store
	Reports  *repositories.FeeReportRepository
	Cache    common.CacheInterface
	Services *Services
}

// InitDependencies wires the services over one store. Payouts and
// recorder may be nil.
func InitDependencies(
	store *repositories.Store,
	reports *repositories.FeeReportRepository,
	cache common.CacheInterface,
	payouts services.PayoutPublisher,
	recorder services.Recorder,
	banTTL time.Duration,
) *Dependencies {
	d := services.Deps{
		Store:    store,
		Reports:  reports,
		BanCache: services.NewBanCache(cache, banTTL, recorder),
		Payouts:  payouts,
		Recorder: recorder,
	}

	return &Dependencies{
		Store:   store,
		Reports: reports,
		Cache:   cache,
		Services: &Services{
			Clubs:      services.NewClubService(d),
			Members:    services.NewMembershipService(d),
			Ledger:     services.NewLedgerService(d),
			Settlement: services.NewSettlementService(d),
		},
	}
}
