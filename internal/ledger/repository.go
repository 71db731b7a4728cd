package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Repository interface {
	// AppendRow inserts the row unless its source message id is already
	// present. It reports whether the row was appended; false with a nil
	// error means another writer got there first.
	AppendRow(ctx context.Context, row *Row) (bool, error)
	Exists(ctx context.Context, sourceMessageID string) (bool, error)
	GetRow(ctx context.Context, sourceMessageID string) (*Row, error)
	ListRows(ctx context.Context, filter RowFilter) ([]Row, error)
	ListSheets(ctx context.Context) ([]string, error)
	SheetStakes(ctx context.Context, sheet string) ([]CurrencyStake, error)
	CountMarkers(ctx context.Context, sheet string) (int, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &PostgresRepository{db: db}
}

const rowColumns = `id, seq, kind, sheet, source_message_id, source, recorded_at, message_at,
		account_name, bet_details, amount, currency, match, period, line, odds, closing_odds, fingerprint`

func (r *PostgresRepository) AppendRow(ctx context.Context, row *Row) (bool, error) {
	row.RecordedAt = time.Now()

	query := `
		INSERT INTO ledger_rows (id, kind, sheet, source_message_id, source, recorded_at, message_at,
			account_name, bet_details, amount, currency, match, period, line, odds, closing_odds, fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (source_message_id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		row.ID, row.Kind, row.Sheet, row.SourceMessageID, row.Source,
		row.RecordedAt, row.MessageAt, row.AccountName, row.BetDetails,
		row.Amount, row.Currency, row.Match, row.Period, row.Line,
		row.Odds, row.ClosingOdds, row.Fingerprint,
	)
	if err != nil {
		return false, fmt.Errorf("failed to append row: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read append result: %w", err)
	}

	return affected == 1, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, sourceMessageID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ledger_rows WHERE source_message_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, sourceMessageID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check row existence: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) GetRow(ctx context.Context, sourceMessageID string) (*Row, error) {
	query := `
		SELECT ` + rowColumns + `
		FROM ledger_rows
		WHERE source_message_id = $1
	`

	row := r.db.QueryRowContext(ctx, query, sourceMessageID)

	var out Row
	err := scanRow(row, &out)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("row not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get row: %w", err)
	}

	return &out, nil
}

func (r *PostgresRepository) ListRows(ctx context.Context, filter RowFilter) ([]Row, error) {
	query := `
		SELECT ` + rowColumns + `
		FROM ledger_rows
		WHERE 1=1
	`

	args := []interface{}{}
	if filter.Sheet != "" {
		args = append(args, filter.Sheet)
		query += fmt.Sprintf(" AND sheet = $%d", len(args))
	}
	if filter.Account != "" {
		args = append(args, filter.Account)
		query += fmt.Sprintf(" AND account_name = $%d", len(args))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		query += fmt.Sprintf(" AND currency = $%d", len(args))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY seq ASC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		var row Row
		if err := scanRow(rows, &row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, row)
	}

	return out, nil
}

func (r *PostgresRepository) ListSheets(ctx context.Context) ([]string, error) {
	query := `
		SELECT sheet
		FROM ledger_rows
		GROUP BY sheet
		ORDER BY MIN(seq) ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	defer rows.Close()

	var sheets []string
	for rows.Next() {
		var sheet string
		if err := rows.Scan(&sheet); err != nil {
			return nil, fmt.Errorf("failed to scan sheet: %w", err)
		}
		sheets = append(sheets, sheet)
	}

	return sheets, nil
}

func (r *PostgresRepository) SheetStakes(ctx context.Context, sheet string) ([]CurrencyStake, error) {
	query := `
		SELECT currency, COUNT(*), COALESCE(SUM(amount), 0)
		FROM ledger_rows
		WHERE sheet = $1 AND kind = 'bet'
		GROUP BY currency
		ORDER BY currency ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sheet stakes: %w", err)
	}
	defer rows.Close()

	var stakes []CurrencyStake
	for rows.Next() {
		var stake CurrencyStake
		if err := rows.Scan(&stake.Currency, &stake.BetCount, &stake.Staked); err != nil {
			return nil, fmt.Errorf("failed to scan sheet stake: %w", err)
		}
		stakes = append(stakes, stake)
	}

	return stakes, nil
}

func (r *PostgresRepository) CountMarkers(ctx context.Context, sheet string) (int, error) {
	query := `SELECT COUNT(*) FROM ledger_rows WHERE sheet = $1 AND kind = 'week_marker'`

	var count int
	if err := r.db.QueryRowContext(ctx, query, sheet).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count markers: %w", err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(s rowScanner, row *Row) error {
	return s.Scan(
		&row.ID, &row.Seq, &row.Kind, &row.Sheet, &row.SourceMessageID,
		&row.Source, &row.RecordedAt, &row.MessageAt, &row.AccountName,
		&row.BetDetails, &row.Amount, &row.Currency, &row.Match, &row.Period,
		&row.Line, &row.Odds, &row.ClosingOdds, &row.Fingerprint,
	)
}
