package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostel/config"
	"hostel/infras/backend"
	backendMocks "hostel/infras/backend/mocks"
	"hostel/infras/otel/mocks"
	"hostel/internal/domains/booking/model"
	"hostel/internal/domains/reference/service"
	"hostel/shared/cache"
	cacheMocks "hostel/shared/cache/mocks"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/session"
)

var operator = session.Session{UserID: "op-1", Role: constant.RoleStaff, HostelID: 7, Token: "tkn"}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 300
	cfg.Backend.Endpoints.Semesters = "/semesters/hostel/{hostel_id}"
	cfg.Backend.Endpoints.RoomAvailable = "/rooms/available"

	return cfg
}

func TestReferenceService_Semesters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := backendMocks.NewMockClient(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockClient, testConfig(), mockCache, mocks.NewOtel())

	t.Run("cache hit", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), "semester:list:7", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*value.(*[]model.Semester) = []model.Semester{{ID: 3, Name: "2024/25 First"}}

				return nil
			})

		res, err := svc.Semesters(context.Background(), operator, 7)

		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, int64(3), res[0].ID)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		mockCache.EXPECT().
			Get(gomock.Any(), "semester:list:7", gomock.Any()).
			Return(cache.Nil)
		mockClient.EXPECT().
			Do(gomock.Any(), operator, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ session.Session, req backend.Request) (backend.Envelope, error) {
				assert.Equal(t, "/semesters/hostel/7", req.Path)

				return backend.Envelope{Success: true, Data: json.RawMessage(`[{"id":3},{"id":4}]`)}, nil
			})
		mockCache.EXPECT().
			Save(gomock.Any(), "semester:list:7", gomock.Any(), 300).
			DoAndReturn(func(context.Context, string, any, int) error {
				wg.Done()

				return nil
			})

		res, err := svc.Semesters(context.Background(), operator, 7)

		require.NoError(t, err)
		assert.Len(t, res, 2)
		wg.Wait()
	})

	t.Run("no hostel", func(t *testing.T) {
		_, err := svc.Semesters(context.Background(), operator, 0)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestReferenceService_Rooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := backendMocks.NewMockClient(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockClient, testConfig(), mockCache, mocks.NewOtel())

	t.Run("backend error is not cached", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), "room:available:7:3", gomock.Any()).
			Return(cache.Nil)
		mockClient.EXPECT().
			Do(gomock.Any(), operator, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ session.Session, req backend.Request) (backend.Envelope, error) {
				assert.Equal(t, "/rooms/available", req.Path)
				assert.Equal(t, "7", req.Query.Get("hostel_id"))
				assert.Equal(t, "3", req.Query.Get("semester_id"))

				return backend.Envelope{}, failure.Unreachable(backend.MessageUnreachable)
			})

		_, err := svc.Rooms(context.Background(), operator, 7, 3)

		require.Error(t, err)
		assert.Equal(t, backend.MessageUnreachable, err.Error())
	})

	t.Run("empty data yields empty list", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		mockCache.EXPECT().
			Get(gomock.Any(), "room:available:7", gomock.Any()).
			Return(cache.Nil)
		mockClient.EXPECT().
			Do(gomock.Any(), operator, gomock.Any()).
			Return(backend.Envelope{Success: true}, nil)
		mockCache.EXPECT().
			Save(gomock.Any(), "room:available:7", gomock.Any(), 300).
			DoAndReturn(func(context.Context, string, any, int) error {
				wg.Done()

				return nil
			})

		res, err := svc.Rooms(context.Background(), operator, 7, 0)

		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
		wg.Wait()
	})
}

func TestReferenceService_InvalidateRooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := backendMocks.NewMockClient(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	svc := service.New(mockClient, testConfig(), mockCache, mocks.NewOtel())

	var (
		mu      sync.Mutex
		saved   []string
		deleted []string
		cleared []string
		wg      sync.WaitGroup
	)

	wg.Add(1)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockClient.EXPECT().Do(gomock.Any(), operator, gomock.Any()).Return(backend.Envelope{Success: true}, nil)
	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), 300).
		DoAndReturn(func(_ context.Context, key string, _ any, _ int) error {
			mu.Lock()
			saved = append(saved, key)
			mu.Unlock()
			wg.Done()

			return nil
		})

	// hostel-wide availability, no semester selected
	_, err := svc.Rooms(context.Background(), operator, 7, 0)
	require.NoError(t, err)
	wg.Wait()

	wg.Add(1)

	mockCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			mu.Lock()
			deleted = append(deleted, key)
			mu.Unlock()

			return nil
		})
	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pattern string) error {
			mu.Lock()
			cleared = append(cleared, pattern)
			mu.Unlock()
			wg.Done()

			return nil
		})

	svc.InvalidateRooms(context.Background(), 7)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []string{"room:available:7"}, saved)
	assert.Equal(t, saved, deleted)
	assert.Equal(t, []string{"room:available:7:*"}, cleared)
}
