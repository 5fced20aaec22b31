package services

import (
	"context"
	"errors"
	"strings"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/logging"
	"carclub/paddock/internal/models/dtos"
	models "carclub/paddock/internal/models/gorm"
	"carclub/paddock/internal/permissions"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService owns events, challenges and their paid entries.
type LedgerService struct {
	core
}

func NewLedgerService(d Deps) *LedgerService {
	return &LedgerService{core: newCore(d)}
}

type EventParams struct {
	Title        string
	EntryFeeUSD  *decimal.Decimal
	MaxAttendees *int
	IsPublic     bool
}

type ChallengeParams struct {
	Title                       string
	EntryFeeUSD                 *decimal.Decimal
	BonusPoolPercentOfEventFees int
}

func validateFee(fee *decimal.Decimal) (decimal.NullDecimal, error) {
	if fee == nil {
		return decimal.NullDecimal{}, nil
	}
	if fee.IsNegative() {
		return decimal.NullDecimal{}, common.BadRequest(constants.MsgNegativeFee)
	}
	return decimal.NewNullDecimal(fee.Round(2)), nil
}

// CreateEvent adds a DRAFT event to a club.
func (s *LedgerService) CreateEvent(ctx context.Context, actorID, clubID string, p EventParams) (*models.Event, error) {
	title := strings.TrimSpace(p.Title)
	fee, err := validateFee(p.EntryFeeUSD)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, common.BadRequest(constants.MsgTitleRequired)
	}
	if p.MaxAttendees != nil && *p.MaxAttendees <= 0 {
		return nil, common.BadRequest(constants.MsgInvalidCapacity)
	}

	var ev *models.Event
	err = s.command(ctx, "CreateEvent", actorID, func(tx *repositories.Store) error {
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		club, err := loadClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if err := requireClub(actor, club, constants.PermEventsCreate); err != nil {
			return err
		}

		ev = &models.Event{
			ClubID:       clubID,
			Title:        title,
			EntryFeeUSD:  fee,
			MaxAttendees: p.MaxAttendees,
			IsPublic:     p.IsPublic,
			Status:       constants.EventDraft,
			CreatedBy:    actorID,
		}
		return tx.Events.Create(ctx, ev)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// GetEvent returns an event visible to the actor.
func (s *LedgerService) GetEvent(ctx context.Context, actorID, eventID string) (*models.Event, error) {
	_, actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	ev, err := s.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundAs(err, constants.MsgEventNotFound)
	}
	if !ev.IsPublic && !permissions.CanAccessClub(actor, clubRef(&ev.Club)) {
		return nil, common.NotFound(constants.MsgEventNotFound)
	}
	return ev, nil
}

// UpdateEventStatus moves an event along its lifecycle. Cancelling an
// event also cancels its PENDING and ACTIVE challenges.
func (s *LedgerService) UpdateEventStatus(ctx context.Context, actorID, eventID string, status constants.EventStatus) (*models.Event, error) {
	if !status.IsValid() {
		return nil, common.BadRequest(constants.MsgInvalidStatus)
	}

	var ev *models.Event
	err := s.command(ctx, "UpdateEventStatus", actorID, func(tx *repositories.Store) error {
		var err error
		ev, err = tx.Events.GetByID(ctx, eventID)
		if err != nil {
			return notFoundAs(err, constants.MsgEventNotFound)
		}
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := requireClub(actor, &ev.Club, constants.PermEventsManage); err != nil {
			return err
		}
		if !ev.Status.CanTransitionTo(status) {
			return common.InvalidState(constants.MsgInvalidTransition)
		}

		ok, err := tx.Events.UpdateStatus(ctx, ev.ID, ev.Status, status)
		if err != nil {
			return err
		}
		if !ok {
			return common.Conflict(constants.MsgInvalidTransition)
		}
		ev.Status = status

		// Open challenges die with their event so no pool is paid out of
		// fees that will be refunded.
		if status == constants.EventCancelled {
			n, err := tx.Challenges.CancelOpenByEvent(ctx, ev.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				logging.Info("cancelled challenges of cancelled event", "event_id", ev.ID, "challenges", n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// CreateChallenge adds a PENDING challenge to an event that is still
// running or upcoming.
func (s *LedgerService) CreateChallenge(ctx context.Context, actorID, eventID string, p ChallengeParams) (*models.Challenge, error) {
	title := strings.TrimSpace(p.Title)
	fee, err := validateFee(p.EntryFeeUSD)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, common.BadRequest(constants.MsgTitleRequired)
	}
	if p.BonusPoolPercentOfEventFees < 0 || p.BonusPoolPercentOfEventFees > 100 {
		return nil, common.BadRequest(constants.MsgInvalidPercent)
	}

	var ch *models.Challenge
	err = s.command(ctx, "CreateChallenge", actorID, func(tx *repositories.Store) error {
		ev, err := tx.Events.GetByID(ctx, eventID)
		if err != nil {
			return notFoundAs(err, constants.MsgEventNotFound)
		}
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := requireClub(actor, &ev.Club, constants.PermChallengesCreate); err != nil {
			return err
		}
		if ev.Status == constants.EventCancelled || ev.Status == constants.EventCompleted {
			return common.InvalidState(constants.MsgEventFinished)
		}

		ch = &models.Challenge{
			EventID:                     ev.ID,
			Title:                       title,
			EntryFeeUSD:                 fee,
			BonusPoolPercentOfEventFees: p.BonusPoolPercentOfEventFees,
			Status:                      constants.ChallengePending,
			CreatedBy:                   actorID,
		}
		return tx.Challenges.Create(ctx, ch)
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// UpdateChallengeStatus activates or cancels a challenge. Completion goes
// through SettlementService.CompleteChallenge.
func (s *LedgerService) UpdateChallengeStatus(ctx context.Context, actorID, challengeID string, status constants.ChallengeStatus) (*models.Challenge, error) {
	if !status.IsValid() {
		return nil, common.BadRequest(constants.MsgInvalidStatus)
	}
	if status == constants.ChallengeCompleted {
		return nil, common.BadRequest(constants.MsgCompleteViaSettle)
	}

	var ch *models.Challenge
	err := s.command(ctx, "UpdateChallengeStatus", actorID, func(tx *repositories.Store) error {
		var err error
		ch, err = tx.Challenges.GetByID(ctx, challengeID)
		if err != nil {
			return notFoundAs(err, constants.MsgChallengeNotFound)
		}
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if err := requireClub(actor, &ch.Event.Club, constants.PermChallengesManage); err != nil {
			return err
		}
		if !ch.Status.CanTransitionTo(status) {
			return common.InvalidState(constants.MsgInvalidTransition)
		}

		ok, err := tx.Challenges.UpdateStatus(ctx, ch.ID, ch.Status, status)
		if err != nil {
			return err
		}
		if !ok {
			return common.Conflict(constants.MsgInvalidTransition)
		}
		ch.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// RegisterEventEntry enters the actor into an event. A paid event gets a
// placeholder payment reference until the fee is captured.
func (s *LedgerService) RegisterEventEntry(ctx context.Context, actorID, eventID string) (*models.EventEntry, error) {
	var entry *models.EventEntry

	err := s.command(ctx, "RegisterEventEntry", actorID, func(tx *repositories.Store) error {
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		// Locks the event row so capacity checks serialize.
		ev, err := tx.Events.GetByID(ctx, eventID)
		if err != nil {
			return notFoundAs(err, constants.MsgEventNotFound)
		}

		exists, err := tx.EventEntries.Exists(ctx, actorID, eventID)
		if err != nil {
			return err
		}
		if exists {
			return common.Conflict(constants.MsgDuplicateEntry)
		}
		if !ev.Status.AcceptsEntries() {
			return common.BadRequest(constants.MsgEventClosed)
		}

		ban, err := optional(tx.Bans.GetByUserAndClub(ctx, actorID, ev.ClubID))
		if err != nil {
			return err
		}
		if ban.IsActive(s.now()) {
			return common.Forbidden(constants.MsgActorBanned)
		}
		// Checked against the actor's own club role, so site admins get no
		// bypass: entering is participation, not moderation.
		if !ev.IsPublic {
			role, _ := actor.MembershipRole(ev.ClubID)
			if !permissions.ClubPermissions(role).Has(constants.PermEventsEnter) {
				return common.BadRequest(constants.MsgMembersOnlyEvent)
			}
		}

		if ev.MaxAttendees != nil {
			n, err := tx.EventEntries.CountByEvent(ctx, eventID)
			if err != nil {
				return err
			}
			if n >= int64(*ev.MaxAttendees) {
				return common.BadRequest(constants.MsgEventFull)
			}
		}

		entry = &models.EventEntry{UserID: actorID, EventID: eventID}
		if ev.HasFee() {
			entry.PaymentRef = placeholderPaymentRef()
		}
		return conflictAs(tx.EventEntries.Create(ctx, entry), constants.MsgDuplicateEntry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RegisterChallengeEntry enters the actor into an ACTIVE challenge. They
// must already hold an entry for the parent event.
func (s *LedgerService) RegisterChallengeEntry(ctx context.Context, actorID, challengeID string) (*models.ChallengeEntry, error) {
	var entry *models.ChallengeEntry

	err := s.command(ctx, "RegisterChallengeEntry", actorID, func(tx *repositories.Store) error {
		if _, _, err := loadActor(ctx, tx, actorID); err != nil {
			return err
		}
		ch, err := tx.Challenges.GetByID(ctx, challengeID)
		if err != nil {
			return notFoundAs(err, constants.MsgChallengeNotFound)
		}

		exists, err := tx.ChallengeEntries.Exists(ctx, actorID, challengeID)
		if err != nil {
			return err
		}
		if exists {
			return common.Conflict(constants.MsgDuplicateEntry)
		}
		if ch.Status != constants.ChallengeActive {
			return common.BadRequest(constants.MsgChallengeNotActive)
		}

		ban, err := optional(tx.Bans.GetByUserAndClub(ctx, actorID, ch.Event.ClubID))
		if err != nil {
			return err
		}
		if ban.IsActive(s.now()) {
			return common.Forbidden(constants.MsgActorBanned)
		}

		entered, err := tx.EventEntries.Exists(ctx, actorID, ch.EventID)
		if err != nil {
			return err
		}
		if !entered {
			return common.PreconditionFailed(constants.MsgEventEntryRequired)
		}

		entry = &models.ChallengeEntry{UserID: actorID, ChallengeID: challengeID}
		if ch.EntryFeeUSD.Valid && ch.EntryFeeUSD.Decimal.IsPositive() {
			entry.PaymentRef = placeholderPaymentRef()
		}
		return conflictAs(tx.ChallengeEntries.Create(ctx, entry), constants.MsgDuplicateEntry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// AggregateEventFees returns entry fee × entry count for an event, or
// zero when the event charges nothing.
func (s *LedgerService) AggregateEventFees(ctx context.Context, eventID string) (decimal.Decimal, error) {
	ev, err := s.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return decimal.Zero, notFoundAs(err, constants.MsgEventNotFound)
	}
	return eventFees(ctx, s.store, ev)
}

func eventFees(ctx context.Context, st *repositories.Store, ev *models.Event) (decimal.Decimal, error) {
	if !ev.HasFee() {
		return decimal.Zero, nil
	}
	n, err := st.EventEntries.CountByEvent(ctx, ev.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return ev.EntryFeeUSD.Decimal.Mul(decimal.NewFromInt(n)), nil
}

// FeeReport summarises collected entry fees per event of a club.
func (s *LedgerService) FeeReport(ctx context.Context, actorID, clubID string) (*dtos.FeeReportResponse, error) {
	_, actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	club, err := loadClub(ctx, s.store, clubID)
	if err != nil {
		return nil, err
	}
	if err := requireClub(actor, club, constants.PermLedgerView); err != nil {
		return nil, err
	}
	if s.reports == nil {
		return nil, errors.New("fee reporting is not configured")
	}

	rows, err := s.reports.ClubFeeRows(ctx, clubID)
	if err != nil {
		return nil, err
	}

	report := &dtos.FeeReportResponse{ClubID: clubID, Events: make([]dtos.EventFeeLine, 0, len(rows)), TotalUSD: decimal.Zero}
	for _, row := range rows {
		line := dtos.EventFeeLine{
			EventID:    row.EventID,
			Title:      row.Title,
			Status:     row.Status,
			EntryCount: row.EntryCount,
			TotalUSD:   decimal.Zero,
		}
		if row.EntryFeeUSD.Valid {
			fee := row.EntryFeeUSD.Decimal
			line.EntryFeeUSD = &fee
			line.TotalUSD = fee.Mul(decimal.NewFromInt(row.EntryCount))
		}
		report.TotalUSD = report.TotalUSD.Add(line.TotalUSD)
		report.Events = append(report.Events, line)
	}
	return report, nil
}

func placeholderPaymentRef() *string {
	ref := constants.PaymentRefAwaitingCapture + uuid.NewString()
	return &ref
}
