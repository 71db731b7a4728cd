package archive

import (
	"context"

	"tally/internal/constants"
	pkgerrors "tally/pkg/errors"
)

type Service interface {
	ListRejections(ctx context.Context, filter RejectionFilter) ([]Rejection, error)
	RejectionStats(ctx context.Context) (*RejectionStats, error)
}

type RejectionStats struct {
	Total       int64 `json:"total"`
	Malformed   int64 `json:"malformed"`
	ScreenedOut int64 `json:"screened_out"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListRejections(ctx context.Context, filter RejectionFilter) ([]Rejection, error) {
	if filter.Limit <= 0 {
		filter.Limit = constants.DefaultLimit
	}
	if filter.Limit > constants.MaxLimit {
		filter.Limit = constants.MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rejections, err := s.repo.ListRejections(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	return rejections, nil
}

func (s *service) RejectionStats(ctx context.Context) (*RejectionStats, error) {
	malformed, err := s.repo.CountRejections(ctx, ReasonMalformed)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	screenedOut, err := s.repo.CountRejections(ctx, ReasonScreenedOut)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	return &RejectionStats{
		Total:       malformed + screenedOut,
		Malformed:   malformed,
		ScreenedOut: screenedOut,
	}, nil
}
