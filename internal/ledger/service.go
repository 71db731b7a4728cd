package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/config"
	"tally/internal/constants"
	"tally/internal/logger"
	"tally/internal/rates"
	pkgerrors "tally/pkg/errors"
)

type Service interface {
	ListRows(ctx context.Context, filter RowFilter) ([]Row, error)
	GetRow(ctx context.Context, sourceMessageID string) (*Row, error)
	ListSheets(ctx context.Context) ([]string, error)
	SheetSummary(ctx context.Context, sheet string) (*SheetSummary, error)
	CloseWeek(ctx context.Context, sheet string) (*Row, error)
}

type service struct {
	repo           Repository
	rates          rates.Provider
	commissionRate decimal.Decimal
	log            logger.Logger
}

func NewService(repo Repository, ratesProvider rates.Provider, cfg config.LedgerConfig, log logger.Logger) Service {
	commissionRate := cfg.CommissionRate
	if commissionRate <= 0 {
		commissionRate = constants.DefaultCommissionRate
	}

	return &service{
		repo:           repo,
		rates:          ratesProvider,
		commissionRate: decimal.NewFromFloat(commissionRate),
		log:            log,
	}
}

func (s *service) ListRows(ctx context.Context, filter RowFilter) ([]Row, error) {
	if filter.Limit <= 0 {
		filter.Limit = constants.DefaultLimit
	}
	if filter.Limit > constants.MaxLimit {
		filter.Limit = constants.MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rows, err := s.repo.ListRows(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	return rows, nil
}

func (s *service) GetRow(ctx context.Context, sourceMessageID string) (*Row, error) {
	row, err := s.repo.GetRow(ctx, sourceMessageID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, pkgerrors.ErrNotFound.WithDetail("source_message_id", sourceMessageID)
		}
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	return row, nil
}

func (s *service) ListSheets(ctx context.Context) ([]string, error) {
	sheets, err := s.repo.ListSheets(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	return sheets, nil
}

// SheetSummary totals a sheet's bets per currency, converts the stakes into
// the quote currency, and applies the commission rate to the converted total.
func (s *service) SheetSummary(ctx context.Context, sheet string) (*SheetSummary, error) {
	stakes, err := s.repo.SheetStakes(ctx, sheet)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	markers, err := s.repo.CountMarkers(ctx, sheet)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	summary := &SheetSummary{
		Sheet:          sheet,
		MarkerCount:    markers,
		Staked:         stakes,
		QuoteCurrency:  s.rates.Quote(),
		ConvertedStake: decimal.Zero,
		CommissionRate: s.commissionRate,
	}

	for _, stake := range stakes {
		summary.BetCount += stake.BetCount

		rate, err := s.rates.Rate(ctx, stake.Currency)
		if err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal).
				WithDetail("currency", stake.Currency)
		}

		summary.ConvertedStake = summary.ConvertedStake.Add(stake.Staked.Mul(rate))
	}

	summary.Commission = summary.ConvertedStake.Mul(s.commissionRate)

	return summary, nil
}

// CloseWeek appends an End of Week marker. An empty sheet name targets the
// current month's sheet.
func (s *service) CloseWeek(ctx context.Context, sheet string) (*Row, error) {
	now := time.Now()
	if sheet == "" {
		sheet = SheetFor(now)
	}

	marker := NewWeekMarker(sheet, now)

	appended, err := s.repo.AppendRow(ctx, marker)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	if !appended {
		// Marker ids are fresh UUIDs, so a conflict here means the id
		// generator misbehaved rather than a legitimate duplicate.
		return nil, pkgerrors.ErrInternal.WithDetail("message", "week marker collided with an existing row")
	}

	s.log.Infow("Closed week on sheet",
		"sheet", sheet,
		"marker_id", marker.ID,
	)

	return marker, nil
}
