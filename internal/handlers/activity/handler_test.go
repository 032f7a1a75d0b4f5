package activity_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hostel/infras/otel/mocks"
	activityMocks "hostel/internal/domains/activity/mocks"
	"hostel/internal/domains/activity/model/dto"
	activityHandler "hostel/internal/handlers/activity"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/session"
)

func TestHandler_GetActivities(t *testing.T) {
	admin := session.Session{UserID: "op-2", Role: constant.RoleAdmin, HostelID: 7}
	superAdmin := session.Session{UserID: "root", Role: constant.RoleSuperAdmin}

	tests := []struct {
		name       string
		sess       *session.Session
		query      string
		wantHostel int64
		err        error
		wantCode   int
	}{
		{
			name:       "admin reads their hostel",
			sess:       &admin,
			query:      "?hostel_id=99",
			wantHostel: 7,
			wantCode:   http.StatusOK,
		},
		{
			name:       "super admin reads every hostel",
			sess:       &superAdmin,
			wantHostel: 0,
			wantCode:   http.StatusOK,
		},
		{
			name:       "api key caller names a hostel",
			query:      "?hostel_id=12",
			wantHostel: 12,
			wantCode:   http.StatusOK,
		},
		{
			name:       "journal failure",
			sess:       &admin,
			wantHostel: 7,
			err:        errors.New("connection reset"),
			wantCode:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := activityMocks.NewMockActivityService(gomock.NewController(t))
			service.EXPECT().
				List(gomock.Any(), tt.wantHostel, gomock.AssignableToTypeOf(gDto.QueryParams{})).
				Return(dto.GetActivitiesResponse{TotalPage: 1}, tt.err)

			handler := activityHandler.New(service, mocks.NewOtel())

			router := chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if tt.sess != nil {
						r = r.WithContext(session.WithSession(r.Context(), *tt.sess))
					}

					next.ServeHTTP(w, r)
				})
			})
			router.Route("/v1", handler.Router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/activity"+tt.query, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
