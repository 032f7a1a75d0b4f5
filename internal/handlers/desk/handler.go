package desk

import (
	"context"
	"hostel/infras/otel"
	"hostel/internal/domains/booking/model/dto"
	bookingService "hostel/internal/domains/booking/service"
	"hostel/internal/domains/desk"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/session"
	"hostel/shared/validator"
	"hostel/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const messageInvalidBookingID = "invalid booking id"

type Handler struct {
	registry *desk.Registry
	bookings bookingService.Booking
	otel     otel.Otel
}

func New(registry *desk.Registry, bookings bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		registry: registry,
		bookings: bookings,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/desk", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetView)
		routerGroup.Get("/summary", handler.GetSummary)
		routerGroup.Patch("/filters", handler.SetFilters)
		routerGroup.Patch("/page", handler.SetPage)

		routerGroup.Post("/create/open", handler.OpenCreate)
		routerGroup.Post("/create/close", handler.CloseCreate)

		routerGroup.Get("/bookings", handler.GetBookings)
		routerGroup.Post("/bookings", handler.CreateBooking)
		routerGroup.Post("/bookings/projection", handler.Project)
		routerGroup.Get("/bookings/{id}", handler.GetBookingByID)
		routerGroup.Post("/bookings/{id}/payments", handler.RecordPayment)
		routerGroup.Post("/bookings/{id}/payments/mobile", handler.InitiateMobilePayment)

		routerGroup.Post("/payments/open", handler.OpenPayment)
		routerGroup.Post("/payments/close", handler.ClosePayment)

		routerGroup.Post("/verify", handler.Verify)
		routerGroup.Post("/verify/check-in", handler.CheckIn)
	})
}

// GetView returns the whole desk of the operator.
// @Summary Get the desk
// @Description Booking list with filters, summary and the state of every dialog.
// @Tags Desk
// @Produce json
// @Success 200 {object} response.Data[desk.View]
// @Failure 401 {object} response.Error
// @Router /v1/desk [get]
// @Security BearerAuth
func (handler *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDeskView")
	defer scope.End()

	workspace, _, err := handler.workspace(r.Context())
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, workspace.View())
}

// GetSummary returns the counters of the loaded page.
// @Summary Get the booking summary
// @Description Paid, partial and pending counts and channel totals of the bookings on the current page.
// @Tags Desk
// @Produce json
// @Success 200 {object} response.Data[model.Summary]
// @Failure 401 {object} response.Error
// @Router /v1/desk/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	workspace, _, err := handler.workspace(r.Context())
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, workspace.Summary())
}

// GetBookings reloads the current page of bookings.
// @Summary Fetch bookings
// @Description Fetch the current page with the current filters. A failure keeps the bookings already loaded.
// @Tags Desk
// @Produce json
// @Success 200 {object} response.Data[desk.ListState]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/desk/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	state, err := workspace.FetchBookings(ctx, sess)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to fetch bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, state)
}

// SetFilters replaces the list filters and reloads from page 1.
// @Summary Set booking filters
// @Description Any change of the filters sends the list back to page 1.
// @Tags Desk
// @Accept json
// @Produce json
// @Param request body desk.Filters true "Filters"
// @Success 200 {object} response.Data[desk.ListState]
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/desk/filters [patch]
// @Security BearerAuth
func (handler *Handler) SetFilters(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetFilters")
	defer scope.End()

	req := desk.Filters{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	state, err := workspace.SetFilters(ctx, sess, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to fetch filtered bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, state)
}

// SetPage moves the list to another page.
// @Summary Set booking page
// @Tags Desk
// @Accept json
// @Produce json
// @Param request body desk.PageRequest true "Page"
// @Success 200 {object} response.Data[desk.ListState]
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/desk/page [patch]
// @Security BearerAuth
func (handler *Handler) SetPage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetPage")
	defer scope.End()

	req := desk.PageRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.InvalidPageParam)

		return
	}

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	state, err := workspace.SetPage(ctx, sess, req.Page)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to fetch booking page")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, state)
}

// OpenCreate opens the booking form and loads the rooms of the semester.
// @Summary Open the booking form
// @Tags Desk
// @Accept json
// @Produce json
// @Param request body desk.OpenCreateRequest true "Semester"
// @Success 200 {object} response.Data[desk.CreateState]
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/desk/create/open [post]
// @Security BearerAuth
func (handler *Handler) OpenCreate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".OpenCreate")
	defer scope.End()

	req := desk.OpenCreateRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	state, err := workspace.OpenCreate(ctx, sess, req.SemesterID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to load rooms for the booking form")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, state)
}

// CloseCreate closes the booking form.
// @Summary Close the booking form
// @Tags Desk
// @Produce json
// @Success 200 {object} response.Data[desk.CreateState]
// @Router /v1/desk/create/close [post]
// @Security BearerAuth
func (handler *Handler) CloseCreate(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CloseCreate")
	defer scope.End()

	workspace, _, err := handler.workspace(r.Context())
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, workspace.CloseCreate())
}

// CreateBooking submits the booking form.
// @Summary Create a booking
// @Description Validates the form, creates the booking with its optional initial payment and refreshes the list. When the mobile money payment still has to be pushed the payment dialog opens, and auto_send_mobile pushes it right away.
// @Tags Desk
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking form"
// @Success 201 {object} response.Data[desk.CreateOutcome]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/desk/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	outcome, err := workspace.CreateBooking(ctx, sess, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + sess.UserID)

	response.WithJSON(w, http.StatusCreated, outcome)
}

// Project computes the display values of a booking draft.
// @Summary Project a booking draft
// @Description Room price, initial payment and projected outstanding of the draft against the rooms of the open form.
// @Tags Desk
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking draft"
// @Success 200 {object} response.Data[dto.Projection]
// @Failure 400 {object} response.Error
// @Router /v1/desk/bookings/projection [post]
// @Security BearerAuth
func (handler *Handler) Project(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Project")
	defer scope.End()

	req := dto.CreateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	workspace, _, err := handler.workspace(r.Context())
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, workspace.Project(req))
}

// GetBookingByID returns a booking with its payments.
// @Summary Get a booking by ID
// @Tags Desk
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} response.Data[model.Booking]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/desk/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id, err := bookingID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	sess, err := operator(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	booking, err := handler.bookings.Get(ctx, sess, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("booking_id", id).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// OpenPayment opens the payment dialog on a booking.
// @Summary Open the payment dialog
// @Tags Desk
// @Accept json
// @Produce json
// @Param request body desk.OpenPaymentRequest true "Booking"
// @Success 200 {object} response.Data[desk.PaymentState]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/desk/payments/open [post]
// @Security BearerAuth
func (handler *Handler) OpenPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".OpenPayment")
	defer scope.End()

	req := desk.OpenPaymentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	state, err := workspace.OpenPayment(ctx, sess, req.BookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("booking_id", req.BookingID).Msg("failed to open payment dialog")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, state)
}

// ClosePayment closes the payment dialog.
// @Summary Close the payment dialog
// @Tags Desk
// @Produce json
// @Success 200 {object} response.Data[desk.PaymentState]
// @Router /v1/desk/payments/close [post]
// @Security BearerAuth
func (handler *Handler) ClosePayment(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ClosePayment")
	defer scope.End()

	workspace, _, err := handler.workspace(r.Context())
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, workspace.ClosePayment())
}

// RecordPayment records a manual payment on a booking.
// @Summary Record a payment
// @Description Success closes the payment dialog and refreshes the list.
// @Tags Desk
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body dto.RecordPaymentRequest true "Payment"
// @Success 200 {object} response.Data[desk.PaymentState]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/desk/bookings/{id}/payments [post]
// @Security BearerAuth
func (handler *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordPayment")
	defer scope.End()

	id, err := bookingID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.RecordPaymentRequest{}
	if err = validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	state, err := workspace.RecordPayment(ctx, sess, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("booking_id", id).Msg("failed to record payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment recorded successfully by user " + sess.UserID)

	response.WithJSON(w, http.StatusOK, state)
}

// InitiateMobilePayment pushes a mobile money prompt for a booking.
// @Summary Initiate a mobile money payment
// @Description The payment dialog stays open with the gateway confirmation.
// @Tags Desk
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body dto.MobilePaymentRequest true "Mobile money request"
// @Success 200 {object} response.Data[desk.PaymentState]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/desk/bookings/{id}/payments/mobile [post]
// @Security BearerAuth
func (handler *Handler) InitiateMobilePayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InitiateMobilePayment")
	defer scope.End()

	id, err := bookingID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.MobilePaymentRequest{}
	if err = validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	state, err := workspace.InitiateMobilePayment(ctx, sess, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("booking_id", id).Msg("failed to initiate mobile money payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, state)
}

// Verify looks up a verification code.
// @Summary Verify a booking code
// @Description Resolves the code to a booking and loads its details. Any failure clears the previous result.
// @Tags Desk
// @Accept json
// @Produce json
// @Param request body dto.VerifyRequest true "Verification code"
// @Success 200 {object} response.Data[desk.VerifyState]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/desk/verify [post]
// @Security BearerAuth
func (handler *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Verify")
	defer scope.End()

	req := dto.VerifyRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	state, err := workspace.Verify(ctx, sess, req.Code)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify booking code")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, state)
}

// CheckIn checks in the booking found by the last verification.
// @Summary Check in the verified booking
// @Description Refused while a balance is outstanding or when the booking is already checked in.
// @Tags Desk
// @Produce json
// @Success 200 {object} response.Data[desk.VerifyState]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/desk/verify/check-in [post]
// @Security BearerAuth
func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	workspace, sess, err := handler.workspace(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	state, err := workspace.CheckInVerified(ctx, sess)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check in booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking checked in by user " + sess.UserID)

	response.WithJSON(w, http.StatusOK, state)
}

func (handler *Handler) workspace(ctx context.Context) (*desk.Workspace, session.Session, error) {
	sess, err := operator(ctx)
	if err != nil {
		return nil, sess, err
	}

	workspace, err := handler.registry.Workspace(sess)
	if err != nil {
		return nil, sess, err //nolint:wrapcheck
	}

	return workspace, sess, nil
}

func operator(ctx context.Context) (session.Session, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return sess, failure.Unauthorized("unauthorized")
	}

	return sess, nil
}

func bookingID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamID), 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.BadRequestFromString(messageInvalidBookingID)
	}

	return id, nil
}
