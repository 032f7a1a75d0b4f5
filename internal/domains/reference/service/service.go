package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"hostel/config"
	"hostel/infras/backend"
	"hostel/infras/otel"
	"hostel/internal/domains/booking/model"
	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/session"
	"net/http"
	"net/url"
	"strconv"
)

const (
	cacheSemesters     = "semester:list"
	cacheRoomAvailable = "room:available"

	messageSemestersFailed = "Failed to load semesters"
	messageRoomsFailed     = "Failed to load rooms"
)

// Reference serves the read-mostly data the booking form is built from.
type Reference interface {
	Semesters(ctx context.Context, sess session.Session, hostelID int64) ([]model.Semester, error)
	Rooms(ctx context.Context, sess session.Session, hostelID, semesterID int64) ([]model.Room, error)
	InvalidateRooms(ctx context.Context, hostelID int64)
}

type serviceImpl struct {
	client backend.Client
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(client backend.Client, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Reference {
	return &serviceImpl{
		client: client,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

func (s *serviceImpl) Semesters(ctx context.Context, sess session.Session, hostelID int64) (res []model.Semester, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reference.Semesters")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if hostelID <= 0 {
		return nil, failure.HostelRequiredError
	}

	hostel := strconv.FormatInt(hostelID, 10)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheSemesters, hostel), s.cfg.Cache.TTL, func(ctx context.Context) ([]model.Semester, error) {
		env, err := s.client.Do(ctx, sess, backend.Request{
			Name:     "semesters.list",
			Method:   http.MethodGet,
			Path:     backend.Expand(s.cfg.Backend.Endpoints.Semesters, map[string]string{"hostel_id": hostel}),
			Fallback: messageSemestersFailed,
		})
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return decodeList[model.Semester](env)
	})
}

func (s *serviceImpl) Rooms(ctx context.Context, sess session.Session, hostelID, semesterID int64) (res []model.Room, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reference.Rooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if hostelID <= 0 {
		return nil, failure.HostelRequiredError
	}

	hostel := strconv.FormatInt(hostelID, 10)
	semester := ""

	query := url.Values{}
	query.Set(constant.RequestParamHostelID, hostel)

	if semesterID > 0 {
		semester = strconv.FormatInt(semesterID, 10)
		query.Set(constant.RequestParamSemesterID, semester)
	}

	key := shared.BuildCacheKey(cacheRoomAvailable, hostel, semester)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) ([]model.Room, error) {
		env, err := s.client.Do(ctx, sess, backend.Request{
			Name:     "rooms.available",
			Method:   http.MethodGet,
			Path:     s.cfg.Backend.Endpoints.RoomAvailable,
			Query:    query,
			Fallback: messageRoomsFailed,
		})
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return decodeList[model.Room](env)
	})
}

// InvalidateRooms drops the cached availability of hostelID, hostel-wide and
// per semester.
func (s *serviceImpl) InvalidateRooms(ctx context.Context, hostelID int64) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheRoomAvailable, strconv.FormatInt(hostelID, 10)))
	}()
}

func decodeList[T any](env backend.Envelope) ([]T, error) {
	items, err := backend.Decode[[]T](env)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}
