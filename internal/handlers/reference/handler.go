package reference

import (
	"hostel/infras/otel"
	"hostel/internal/domains/reference/service"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/session"
	"hostel/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reference
	otel    otel.Otel
}

func New(service service.Reference, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/semesters", handler.GetSemesters)
	router.Get("/rooms", handler.GetRooms)
}

// GetSemesters lists the semesters of the operator's hostel.
// @Summary Get semesters
// @Description Semesters of the hostel, cached. Super admins pass hostel_id.
// @Tags Reference
// @Produce json
// @Param hostel_id query int false "Hostel ID (super admin only)"
// @Success 200 {object} response.Data[[]model.Semester]
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/semesters [get]
// @Security BearerAuth
func (handler *Handler) GetSemesters(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSemesters")
	defer scope.End()

	sess, ok := session.FromContext(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	hostelID := sess.ResolveHostel(queryInt(r, constant.RequestParamHostelID))

	semesters, err := handler.service.Semesters(ctx, sess, hostelID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("hostel_id", hostelID).Msg("failed to get semesters")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, semesters)
}

// GetRooms lists the available rooms of the operator's hostel.
// @Summary Get available rooms
// @Description Room availability of the hostel, optionally for one semester, cached.
// @Tags Reference
// @Produce json
// @Param hostel_id query int false "Hostel ID (super admin only)"
// @Param semester_id query int false "Semester ID"
// @Success 200 {object} response.Data[[]model.Room]
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/rooms [get]
// @Security BearerAuth
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	sess, ok := session.FromContext(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	hostelID := sess.ResolveHostel(queryInt(r, constant.RequestParamHostelID))
	semesterID := queryInt(r, constant.RequestParamSemesterID)

	rooms, err := handler.service.Rooms(ctx, sess, hostelID, semesterID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("hostel_id", hostelID).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

func queryInt(r *http.Request, key string) int64 {
	value, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil || value < 0 {
		return 0
	}

	return value
}
