package desk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostel/config"
	"hostel/infras/otel/mocks"
	bookingMocks "hostel/internal/domains/booking/mocks"
	"hostel/internal/domains/booking/model"
	"hostel/internal/domains/booking/model/dto"
	"hostel/internal/domains/desk"
	referenceMocks "hostel/internal/domains/reference/mocks"
	deskHandler "hostel/internal/handlers/desk"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/session"
)

var operator = session.Session{UserID: "op-1", Role: constant.RoleStaff, HostelID: 7, Token: "tkn"}

type fixture struct {
	bookings  *bookingMocks.MockBooking
	reference *referenceMocks.MockReference
	router    chi.Router
}

func newFixture(t *testing.T, sess *session.Session) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Backend.PageLimit = 20

	bookings := bookingMocks.NewMockBooking(ctrl)
	reference := referenceMocks.NewMockReference(ctrl)
	ot := mocks.NewOtel()

	handler := deskHandler.New(desk.NewRegistry(cfg, bookings, reference, ot), bookings, ot)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess != nil {
				r = r.WithContext(session.WithSession(r.Context(), *sess))
			}

			next.ServeHTTP(w, r)
		})
	})
	router.Route("/v1", handler.Router)

	return fixture{bookings: bookings, reference: reference, router: router}
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var body struct {
		Data T `json:"data"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Data
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Error
}

func TestHandler_RequiresSession(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/v1/desk/", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_GetBookings(t *testing.T) {
	f := newFixture(t, &operator)

	f.bookings.EXPECT().
		List(gomock.Any(), operator, gomock.Any()).
		Return(dto.BookingPage{Bookings: []model.Booking{{ID: 1, Status: model.StatusBooked}}, Page: 1, TotalPages: 4, Total: 70}, nil)

	rec := f.do(http.MethodGet, "/v1/desk/bookings", "")

	require.Equal(t, http.StatusOK, rec.Code)

	state := decode[desk.ListState](t, rec)
	assert.Equal(t, 4, state.TotalPages)
	assert.Len(t, state.Bookings, 1)
}

func TestHandler_SetFilters(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		mock     func(f fixture)
	}{
		{
			name:     "unknown status is rejected before any request",
			body:     `{"status":"archived"}`,
			wantCode: http.StatusBadRequest,
			mock:     func(fixture) {},
		},
		{
			name:     "valid filters fetch page 1",
			body:     `{"status":"booked","search":"ama"}`,
			wantCode: http.StatusOK,
			mock: func(f fixture) {
				f.bookings.EXPECT().
					List(gomock.Any(), operator, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ session.Session, q dto.ListQuery) (dto.BookingPage, error) {
						assert.Equal(t, 1, q.Page)
						assert.Equal(t, "booked", q.Status)
						assert.Equal(t, "ama", q.Search)

						return dto.BookingPage{Page: 1, TotalPages: 1}, nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &operator)
			tt.mock(f)

			rec := f.do(http.MethodPatch, "/v1/desk/filters", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_SetPage_Invalid(t *testing.T) {
	f := newFixture(t, &operator)

	rec := f.do(http.MethodPatch, "/v1/desk/page", `{"page":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, failure.InvalidPageParam.Message, errorOf(t, rec))
}

func TestHandler_CreateBooking(t *testing.T) {
	t.Run("validation message", func(t *testing.T) {
		f := newFixture(t, &operator)

		rec := f.do(http.MethodPost, "/v1/desk/bookings", `{"semester_id":3}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.MessageSelectSemesterAndRoom, errorOf(t, rec))
	})

	t.Run("created", func(t *testing.T) {
		f := newFixture(t, &operator)

		created := model.Booking{ID: 42, HostelID: 7, AmountDue: decimal.NewFromInt(500)}

		f.bookings.EXPECT().
			Create(gomock.Any(), operator, int64(7), gomock.Any()).
			Return(dto.CreateBookingResult{Booking: created}, nil)
		f.reference.EXPECT().InvalidateRooms(gomock.Any(), int64(7))
		f.bookings.EXPECT().
			List(gomock.Any(), operator, gomock.Any()).
			Return(dto.BookingPage{Bookings: []model.Booking{created}, Page: 1, TotalPages: 1, Total: 1}, nil)

		rec := f.do(http.MethodPost, "/v1/desk/bookings", `{
			"semester_id": 3,
			"room_id": 11,
			"full_name": "Ama Mensah",
			"email": "ama@example.com",
			"phone": "0244000000",
			"payment_method": "none"
		}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		outcome := decode[desk.CreateOutcome](t, rec)
		assert.Equal(t, int64(42), outcome.Result.Booking.ID)
		assert.False(t, outcome.PaymentOpened)
		assert.Len(t, outcome.View.List.Bookings, 1)
	})
}

func TestHandler_RecordPayment(t *testing.T) {
	t.Run("invalid booking id", func(t *testing.T) {
		f := newFixture(t, &operator)

		rec := f.do(http.MethodPost, "/v1/desk/bookings/abc/payments", `{"amount":"10"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid amount", func(t *testing.T) {
		f := newFixture(t, &operator)

		rec := f.do(http.MethodPost, "/v1/desk/bookings/42/payments", `{"amount":"-5"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.MessagePaymentAmountInvalid, errorOf(t, rec))
	})
}

func TestHandler_GetBookingByID(t *testing.T) {
	f := newFixture(t, &operator)

	f.bookings.EXPECT().
		Get(gomock.Any(), operator, int64(42)).
		Return(model.Booking{}, failure.Upstream(http.StatusNotFound, "Booking not found"))

	rec := f.do(http.MethodGet, "/v1/desk/bookings/42", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Booking not found", errorOf(t, rec))
}

func TestHandler_VerifyAndCheckIn(t *testing.T) {
	f := newFixture(t, &operator)

	verified := model.Booking{ID: 42, Status: model.StatusBooked, AmountDue: decimal.NewFromInt(500), AmountPaid: decimal.NewFromInt(500)}
	checkedIn := verified
	checkedIn.Status = model.StatusCheckedIn

	f.bookings.EXPECT().Verify(gomock.Any(), operator, "3F9A2C").Return(verified, nil)
	f.bookings.EXPECT().CheckIn(gomock.Any(), operator, verified).Return(checkedIn, nil)
	f.bookings.EXPECT().List(gomock.Any(), operator, gomock.Any()).Return(dto.BookingPage{Page: 1, TotalPages: 1}, nil)

	rec := f.do(http.MethodPost, "/v1/desk/verify", `{"code":"3f9a2c"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[desk.VerifyState](t, rec).CanCheckIn)

	rec = f.do(http.MethodPost, "/v1/desk/verify/check-in", "")
	require.Equal(t, http.StatusOK, rec.Code)

	state := decode[desk.VerifyState](t, rec)
	assert.Equal(t, model.StatusCheckedIn, state.Result.Status)
	assert.Equal(t, desk.PhaseSucceeded, state.CheckIn.Phase)
}
