package activity

import (
	"hostel/infras/otel"
	"hostel/internal/domains/activity/service"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/session"
	"hostel/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Activity
	otel    otel.Otel
}

func New(service service.Activity, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/activity", handler.GetActivities)
}

// GetActivities lists the desk activity journal.
// @Summary Get desk activity
// @Description Bookings created, payments recorded, mobile money requests and check-ins done through the desk, newest first. Admins see their hostel; super admins pass hostel_id or see every hostel.
// @Tags Activity
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param hostel_id query int false "Hostel ID (super admin only)"
// @Success 200 {object} response.Data[dto.GetActivitiesResponse]
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/activity [get]
// @Security BearerAuth
func (handler *Handler) GetActivities(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActivities")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	// API key callers carry no session and read every hostel unless one is named.
	selected, _ := strconv.ParseInt(r.URL.Query().Get(constant.RequestParamHostelID), 10, 64)

	hostelID := selected
	if sess, ok := session.FromContext(ctx); ok {
		hostelID = sess.ResolveHostel(selected)
	}

	activities, err := handler.service.List(ctx, hostelID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activities")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Activities retrieved successfully")

	response.WithJSON(w, http.StatusOK, activities)
}
