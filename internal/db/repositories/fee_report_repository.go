package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// EventFeeRow is one line of a club fee report.
type EventFeeRow struct {
	EventID     string              `db:"event_id"`
	Title       string              `db:"title"`
	Status      string              `db:"status"`
	EntryFeeUSD decimal.NullDecimal `db:"entry_fee_usd"`
	EntryCount  int64               `db:"entry_count"`
}

const clubFeeReportQuery = `
	SELECT e.id AS event_id,
	       e.title AS title,
	       e.status AS status,
	       e.entry_fee_usd AS entry_fee_usd,
	       COUNT(ee.id) AS entry_count
	FROM events e
	LEFT JOIN event_entries ee ON ee.event_id = e.id
	WHERE e.club_id = ?
	GROUP BY e.id, e.title, e.status, e.entry_fee_usd
	ORDER BY e.title ASC
`

// FeeReportRepository runs read-side reporting queries with sqlx. Fee
// totals are multiplied out in Go so money never passes through a float.
type FeeReportRepository struct {
	db *sqlx.DB
}

func NewFeeReportRepository(db *sqlx.DB) *FeeReportRepository {
	return &FeeReportRepository{db: db}
}

// ClubFeeRows returns entry counts and fees for every event of a club
func (r *FeeReportRepository) ClubFeeRows(ctx context.Context, clubID string) ([]EventFeeRow, error) {
	rows := []EventFeeRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(clubFeeReportQuery), clubID); err != nil {
		return nil, fmt.Errorf("failed to load club fee report: %w", err)
	}
	return rows, nil
}

// Ping checks the reporting connection.
func (r *FeeReportRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
