package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Activity=MockActivityService

import (
	"context"
	"fmt"
	"hostel/infras/otel"
	"hostel/internal/domains/activity/model"
	"hostel/internal/domains/activity/model/dto"
	"hostel/internal/domains/activity/repository"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Activity is the journal of desk mutations.
type Activity interface {
	// Record stores entry in the background; a failing journal never fails the caller.
	Record(ctx context.Context, entry model.Entry)
	List(ctx context.Context, hostelID int64, params gDto.QueryParams) (dto.GetActivitiesResponse, error)
}

type serviceImpl struct {
	repo repository.Activity
	otel otel.Otel
}

func New(repo repository.Activity, otel otel.Otel) Activity {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, entry model.Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = timezone.Now()
	}

	if entry.RequestID == "" {
		entry.RequestID, _ = ctx.Value(constant.ContextKeyRequestID).(string)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		c, scope := s.otel.NewScope(c, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Record")
		defer scope.End()

		if err := s.repo.Insert(c, entry); err != nil {
			scope.TraceError(err)
			log.Error().
				Err(err).
				Str("action", string(entry.Action)).
				Int64("booking_id", entry.BookingID).
				Msg("failed to record desk activity")
		}
	}()
}

func (s *serviceImpl) List(ctx context.Context, hostelID int64, params gDto.QueryParams) (res dto.GetActivitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.repo.Count(ctx, hostelID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activities")

		return res, fmt.Errorf("failed to count activities: %w", err)
	}

	entries, err := s.repo.GetAll(ctx, hostelID, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to get activities")

		return res, fmt.Errorf("failed to get activities: %w", err)
	}

	res.FromModels(entries, total, params.Limit)

	return res, nil
}
