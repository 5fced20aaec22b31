package services

import (
	"context"
	"time"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/logging"
	models "carclub/paddock/internal/models/gorm"
	"carclub/paddock/internal/workers"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Settlement is the recorded outcome of a completed challenge.
type Settlement struct {
	ChallengeID string
	BonusPool   decimal.Decimal
	Winners     [3]string
	Payouts     [3]decimal.Decimal
	ReleasedAt  time.Time
}

// SettlementService computes bonus pools and completes challenges.
type SettlementService struct {
	core
}

func NewSettlementService(d Deps) *SettlementService {
	return &SettlementService{core: newCore(d)}
}

// percentOf returns amount × pct / 100 rounded to cents.
func percentOf(amount decimal.Decimal, pct int64) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(pct)).Div(hundred).Round(2)
}

// SplitBonusPool divides pool 50/30/20. First and second place are rounded
// to cents and third takes the remainder, so the parts always add up to
// the pool.
func SplitBonusPool(pool decimal.Decimal) [3]decimal.Decimal {
	first := percentOf(pool, constants.PayoutFirstPercent)
	second := percentOf(pool, constants.PayoutSecondPercent)
	return [3]decimal.Decimal{first, second, pool.Sub(first).Sub(second)}
}

func bonusPool(ctx context.Context, st *repositories.Store, ch *models.Challenge) (decimal.Decimal, error) {
	fees, err := eventFees(ctx, st, &ch.Event)
	if err != nil {
		return decimal.Zero, err
	}
	return percentOf(fees, int64(ch.BonusPoolPercentOfEventFees)), nil
}

// ComputeChallengeBonusPool recomputes the pool from the parent event's
// current fees. Nothing is cached or stored.
func (s *SettlementService) ComputeChallengeBonusPool(ctx context.Context, challengeID string) (decimal.Decimal, error) {
	ch, err := s.store.Challenges.GetByID(ctx, challengeID)
	if err != nil {
		return decimal.Zero, notFoundAs(err, constants.MsgChallengeNotFound)
	}
	return bonusPool(ctx, s.store, ch)
}

// CompleteChallenge records the winners and payouts of an ACTIVE
// challenge. Payout instructions are published only after the commit.
func (s *SettlementService) CompleteChallenge(ctx context.Context, actorID, challengeID string, winners []string) (*Settlement, error) {
	var out *Settlement

	err := s.command(ctx, "CompleteChallenge", actorID, func(tx *repositories.Store) error {
		ch, err := tx.Challenges.GetByID(ctx, challengeID)
		if err != nil {
			return notFoundAs(err, constants.MsgChallengeNotFound)
		}
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := requireClub(actor, &ch.Event.Club, constants.PermChallengesComplete); err != nil {
			return err
		}

		switch ch.Status {
		case constants.ChallengeCompleted:
			return common.Conflict(constants.MsgAlreadySettled)
		case constants.ChallengeActive:
		default:
			return common.BadRequest(constants.MsgChallengeNotActive)
		}
		if ch.Event.Status == constants.EventCancelled {
			return common.InvalidState(constants.MsgEventFinished)
		}

		places, err := distinctWinners(winners)
		if err != nil {
			return err
		}
		n, err := tx.ChallengeEntries.CountParticipants(ctx, ch.ID, places[:])
		if err != nil {
			return err
		}
		if n != int64(len(places)) {
			return common.BadRequest(constants.MsgWinnersNotEntered)
		}

		pool, err := bonusPool(ctx, tx, ch)
		if err != nil {
			return err
		}
		settlement := repositories.Settlement{
			Winners:    places,
			BonusPool:  pool,
			Payouts:    SplitBonusPool(pool),
			ReleasedAt: s.now().UTC(),
		}

		ok, err := tx.Challenges.Complete(ctx, ch.ID, settlement)
		if err != nil {
			return err
		}
		if !ok {
			return common.Conflict(constants.MsgAlreadySettled)
		}

		out = &Settlement{
			ChallengeID: ch.ID,
			BonusPool:   settlement.BonusPool,
			Winners:     settlement.Winners,
			Payouts:     settlement.Payouts,
			ReleasedAt:  settlement.ReleasedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.RecordSettlement(out.BonusPool)
	logging.Info("challenge settled",
		"challenge_id", out.ChallengeID,
		"actor_id", actorID,
		"bonus_pool_usd", out.BonusPool.StringFixed(2),
	)
	s.publish(ctx, out)
	return out, nil
}

func distinctWinners(winners []string) ([3]string, error) {
	var places [3]string
	if len(winners) != len(places) {
		return places, common.BadRequest(constants.MsgWinnersNotDistinct)
	}
	seen := make(map[string]struct{}, len(places))
	for i, w := range winners {
		if w == "" {
			return places, common.BadRequest(constants.MsgWinnersNotDistinct)
		}
		if _, dup := seen[w]; dup {
			return places, common.BadRequest(constants.MsgWinnersNotDistinct)
		}
		seen[w] = struct{}{}
		places[i] = w
	}
	return places, nil
}

// publish hands one instruction per non-zero payout to the dispatcher.
func (s *SettlementService) publish(ctx context.Context, st *Settlement) {
	if s.payouts == nil {
		return
	}
	items := make([]workers.PayoutInstruction, 0, len(st.Winners))
	for i, userID := range st.Winners {
		if !st.Payouts[i].IsPositive() {
			continue
		}
		items = append(items, workers.PayoutInstruction{
			ChallengeID:    st.ChallengeID,
			UserID:         userID,
			Place:          i + 1,
			AmountUSD:      st.Payouts[i],
			IdempotencyKey: workers.PayoutKey(st.ChallengeID, i+1),
			ReleasedAt:     st.ReleasedAt,
		})
	}
	if len(items) > 0 {
		s.payouts.PublishPayouts(ctx, items)
	}
}

// GetSettlement returns the amounts recorded at completion without
// recomputing them.
func (s *SettlementService) GetSettlement(ctx context.Context, challengeID string) (*Settlement, error) {
	ch, err := s.store.Challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, notFoundAs(err, constants.MsgChallengeNotFound)
	}
	if ch.Status != constants.ChallengeCompleted {
		return nil, common.InvalidState(constants.MsgNotSettled)
	}

	st := &Settlement{
		ChallengeID: ch.ID,
		BonusPool:   ch.BonusPoolUSD.Decimal,
		Winners:     [3]string{deref(ch.FirstPlaceUserID), deref(ch.SecondPlaceUserID), deref(ch.ThirdPlaceUserID)},
		Payouts:     [3]decimal.Decimal{ch.FirstPlacePayout.Decimal, ch.SecondPlacePayout.Decimal, ch.ThirdPlacePayout.Decimal},
	}
	if ch.PayoutsReleasedAt != nil {
		st.ReleasedAt = *ch.PayoutsReleasedAt
	}
	return st, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
