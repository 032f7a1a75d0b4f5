package backend_test

import (
	"context"
	"encoding/json"
	"hostel/infras/backend"
	"hostel/infras/otel/mocks"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/session"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var operator = session.Session{UserID: "op-1", Role: constant.RoleAdmin, HostelID: 7, Token: "tkn"}

func newClient(t *testing.T, handler http.HandlerFunc) backend.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return backend.NewWithHTTPClient(server.URL+"/", server.Client(), mocks.NewOtel())
}

func TestClient_Do_Success(t *testing.T) {
	var gotRequest *http.Request
	var gotBody map[string]any

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRequest = r
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":42},"pagination":{"page":2,"limit":20,"total":41,"totalPages":3}}`))
	})

	env, err := client.Do(context.Background(), operator, backend.Request{
		Name:   "bookings.create",
		Method: http.MethodPost,
		Path:   "/bookings",
		Query:  url.Values{"hostel_id": []string{"7"}},
		Body:   map[string]any{"student_name": "Ama"},
	})

	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, 3, env.Pagination.TotalPages)

	assert.Equal(t, "/bookings", gotRequest.URL.Path)
	assert.Equal(t, "7", gotRequest.URL.Query().Get("hostel_id"))
	assert.Equal(t, "Bearer tkn", gotRequest.Header.Get(constant.RequestHeaderAuthorization))
	assert.Equal(t, constant.ContentTypeJSON, gotRequest.Header.Get(constant.RequestHeaderContentType))
	assert.NotEmpty(t, gotRequest.Header.Get(constant.RequestHeaderRequestID))
	assert.Equal(t, "Ama", gotBody["student_name"])

	data, err := backend.Decode[struct {
		ID int64 `json:"id"`
	}](env)
	require.NoError(t, err)
	assert.Equal(t, int64(42), data.ID)
}

func TestClient_Do_ForwardsRequestID(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-77", r.Header.Get(constant.RequestHeaderRequestID))
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	ctx := context.WithValue(context.Background(), constant.ContextKeyRequestID, "req-77")
	_, err := client.Do(ctx, operator, backend.Request{Name: "ping", Method: http.MethodGet, Path: "/ping"})

	require.NoError(t, err)
}

func TestClient_Do_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		fallback    string
		wantCode    int
		wantMessage string
	}{
		{
			name:        "http error with json message",
			status:      http.StatusConflict,
			body:        `{"success":false,"message":"Room is full"}`,
			fallback:    "Failed to create booking",
			wantCode:    http.StatusConflict,
			wantMessage: "Room is full",
		},
		{
			name:        "http error without json body",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			fallback:    "Failed to create booking",
			wantCode:    http.StatusBadGateway,
			wantMessage: "Server error: 502 Bad Gateway",
		},
		{
			name:        "http error json without message uses fallback",
			status:      http.StatusNotFound,
			body:        `{"success":false}`,
			fallback:    "Failed to load booking details for this code.",
			wantCode:    http.StatusNotFound,
			wantMessage: "Failed to load booking details for this code.",
		},
		{
			name:        "success false with message",
			status:      http.StatusOK,
			body:        `{"success":false,"message":"Invalid verification code"}`,
			fallback:    "Verification failed",
			wantCode:    http.StatusUnprocessableEntity,
			wantMessage: "Invalid verification code",
		},
		{
			name:        "missing success flag uses fallback",
			status:      http.StatusOK,
			body:        `{"data":{}}`,
			fallback:    "Failed to fetch bookings",
			wantCode:    http.StatusUnprocessableEntity,
			wantMessage: "Failed to fetch bookings",
		},
		{
			name:        "unparseable 2xx body",
			status:      http.StatusOK,
			body:        `not json`,
			fallback:    "Failed to fetch bookings",
			wantCode:    http.StatusUnprocessableEntity,
			wantMessage: "Failed to fetch bookings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Do(context.Background(), operator, backend.Request{
				Name:     "test",
				Method:   http.MethodGet,
				Path:     "/x",
				Fallback: tt.fallback,
			})

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
			assert.Equal(t, tt.wantMessage, err.Error())
		})
	}
}

func TestClient_Do_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := backend.NewWithHTTPClient(server.URL, &http.Client{Timeout: time.Second}, mocks.NewOtel())

	_, err := client.Do(context.Background(), operator, backend.Request{Name: "test", Method: http.MethodGet, Path: "/x"})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, failure.GetCode(err))
	assert.Equal(t, backend.MessageUnreachable, err.Error())
}

func TestClient_Do_Canceled(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Do(ctx, operator, backend.Request{Name: "test", Method: http.MethodGet, Path: "/x"})

	require.Error(t, err)
	assert.True(t, backend.IsCanceled(err))
}

func TestExpand(t *testing.T) {
	assert.Equal(t, "/bookings/42/check-in", backend.Expand("/bookings/{id}/check-in", map[string]string{"id": "42"}))
	assert.Equal(t, "/bookings/verify/3F9A%2F2C", backend.Expand("/bookings/verify/{code}", map[string]string{"code": "3F9A/2C"}))
	assert.Equal(t, "/semesters/hostel/7", backend.Expand("/semesters/hostel/{hostel_id}", map[string]string{"hostel_id": "7"}))
}

func TestDecode_EmptyData(t *testing.T) {
	got, err := backend.Decode[[]int](backend.Envelope{Success: true})

	require.NoError(t, err)
	assert.Nil(t, got)
}
