package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"hostel/config"
	"hostel/infras/backend"
	"hostel/infras/otel"
	activityModel "hostel/internal/domains/activity/model"
	activity "hostel/internal/domains/activity/service"
	"hostel/internal/domains/booking/model"
	"hostel/internal/domains/booking/model/dto"
	"hostel/shared/constant"
	"hostel/shared/failure"
	gModel "hostel/shared/model"
	"hostel/shared/session"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Booking performs one desk operation per call against the hostel backend.
// It keeps no state between calls.
type Booking interface {
	List(ctx context.Context, sess session.Session, query dto.ListQuery) (dto.BookingPage, error)
	Get(ctx context.Context, sess session.Session, id int64) (model.Booking, error)
	Create(ctx context.Context, sess session.Session, hostelID int64, req dto.CreateBookingRequest) (dto.CreateBookingResult, error)
	Verify(ctx context.Context, sess session.Session, code string) (model.Booking, error)
	CheckIn(ctx context.Context, sess session.Session, booking model.Booking) (model.Booking, error)
	RecordPayment(ctx context.Context, sess session.Session, booking model.Booking, req dto.RecordPaymentRequest) (dto.PaymentResult, error)
	InitiateMobilePayment(ctx context.Context, sess session.Session, booking model.Booking, req dto.MobilePaymentRequest) (dto.PaymentResult, error)
}

type serviceImpl struct {
	client   backend.Client
	cfg      *config.Config
	activity activity.Activity
	otel     otel.Otel
}

func New(client backend.Client, cfg *config.Config, activity activity.Activity, otel otel.Otel) Booking {
	return &serviceImpl{
		client:   client,
		cfg:      cfg,
		activity: activity,
		otel:     otel,
	}
}

func (s *serviceImpl) List(ctx context.Context, sess session.Session, query dto.ListQuery) (res dto.BookingPage, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if query.HostelID <= 0 {
		return res, failure.HostelRequiredError
	}

	if query.Limit <= 0 {
		query.Limit = s.cfg.Backend.PageLimit
	}

	env, err := s.client.Do(ctx, sess, backend.Request{
		Name:     "bookings.list",
		Method:   http.MethodGet,
		Path:     s.cfg.Backend.Endpoints.Bookings,
		Query:    query.Values(),
		Fallback: dto.MessageFetchFailed,
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	bookings, err := backend.Decode[[]model.Booking](env)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode bookings")

		return res, err //nolint:wrapcheck
	}

	res.Bookings = bookings
	if res.Bookings == nil {
		res.Bookings = []model.Booking{}
	}

	res.Page = max(query.Page, 1)
	res.TotalPages = 1
	res.Total = len(bookings)

	if env.Pagination != nil {
		res.TotalPages = max(env.Pagination.TotalPages, 1)
		res.Total = env.Pagination.Total
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, sess session.Session, id int64) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.detail(ctx, sess, id, "")
}

func (s *serviceImpl) detail(ctx context.Context, sess session.Session, id int64, fallback string) (model.Booking, error) {
	env, err := s.client.Do(ctx, sess, backend.Request{
		Name:     "bookings.detail",
		Method:   http.MethodGet,
		Path:     backend.Expand(s.cfg.Backend.Endpoints.BookingDetail, map[string]string{"id": formatID(id)}),
		Fallback: fallback,
	})
	if err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	return backend.Decode[model.Booking](env) //nolint:wrapcheck
}

func (s *serviceImpl) Create(ctx context.Context, sess session.Session, hostelID int64, req dto.CreateBookingRequest) (res dto.CreateBookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if hostelID <= 0 {
		return res, failure.HostelRequiredError
	}

	if err = req.Check(); err != nil {
		return res, err //nolint:wrapcheck
	}

	env, err := s.client.Do(ctx, sess, backend.Request{
		Name:     "bookings.create",
		Method:   http.MethodPost,
		Path:     s.cfg.Backend.Endpoints.Bookings,
		Body:     req.ToPayload(hostelID),
		Fallback: dto.MessageCreateFailed,
	})
	if err != nil {
		log.Error().Err(err).Int64("hostel_id", hostelID).Msg("failed to create booking")

		return res, err //nolint:wrapcheck
	}

	res, err = backend.Decode[dto.CreateBookingResult](env)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	entry := s.entry(sess, res.Booking, activityModel.ActionBookingCreated)
	if amount, ok := req.PaymentAmount.Positive(); ok && req.Method() != model.PaymentMethodNone {
		entry.Amount = decimal.NewNullDecimal(amount)
		entry.Method = string(req.Method())
	}

	if entry.HostelID == 0 {
		entry.HostelID = hostelID
	}

	s.activity.Record(ctx, entry)

	return res, nil
}

// Verify resolves a verification code to a booking id and then loads the
// booking. Both steps must succeed.
func (s *serviceImpl) Verify(ctx context.Context, sess session.Session, code string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Verify")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	code = dto.NormalizeCode(code)
	if code == "" {
		return res, failure.BadRequestFromString(dto.MessageCodeRequired)
	}

	scope.SetAttribute("booking.verification_code", code)

	env, err := s.client.Do(ctx, sess, backend.Request{
		Name:     "bookings.verify",
		Method:   http.MethodGet,
		Path:     backend.Expand(s.cfg.Backend.Endpoints.Verify, map[string]string{"code": code}),
		Fallback: dto.MessageVerifyFailed,
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	lookup, err := backend.Decode[dto.VerifyLookup](env)
	if err != nil || lookup.BookingID <= 0 {
		return res, failure.Rejected(dto.MessageVerifyFailed)
	}

	res, err = s.detail(ctx, sess, lookup.BookingID, dto.MessageDetailLoadFailed)
	if err != nil {
		if backend.IsCanceled(err) {
			return res, err
		}

		log.Error().Err(err).Int64("booking_id", lookup.BookingID).Msg("failed to load verified booking")

		return model.Booking{}, failure.Upstream(failure.GetCode(err), dto.MessageDetailLoadFailed)
	}

	return res, nil
}

// CheckIn tries the configured check-in endpoints in order. Only a 404 moves
// on to the next one; any other answer ends the attempt.
func (s *serviceImpl) CheckIn(ctx context.Context, sess session.Session, booking model.Booking) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckIn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if booking.Status == model.StatusCheckedIn {
		return booking, failure.Conflict(dto.MessageAlreadyCheckedIn)
	}

	if !booking.CanCheckIn() {
		return booking, failure.BadRequestFromString(dto.MessageBalanceOutstanding)
	}

	var env backend.Envelope

	for _, req := range s.checkInRequests(sess, booking) {
		env, err = s.client.Do(ctx, sess, req)
		if err == nil || !failure.IsNotFound(err) {
			break
		}

		log.Warn().Str("path", req.Path).Int64("booking_id", booking.ID).Msg("check-in endpoint not found, trying next variant")
	}

	if err != nil {
		log.Error().Err(err).Int64("booking_id", booking.ID).Msg("failed to check in booking")

		return booking, err //nolint:wrapcheck
	}

	res = booking
	if updated, decodeErr := backend.Decode[*model.Booking](env); decodeErr == nil && updated != nil && updated.ID == booking.ID {
		res = *updated
	}

	res.Status = model.StatusCheckedIn

	s.activity.Record(ctx, s.entry(sess, booking, activityModel.ActionBookingCheckedIn))

	return res, nil
}

func (s *serviceImpl) checkInRequests(sess session.Session, booking model.Booking) []backend.Request {
	requests := []backend.Request{{
		Name:     "bookings.check_in",
		Method:   http.MethodPost,
		Path:     backend.Expand(s.cfg.Backend.Endpoints.CheckIn, map[string]string{"id": formatID(booking.ID)}),
		Fallback: dto.MessageCheckInFailed,
	}}

	if s.cfg.Backend.Endpoints.LegacyCheckIn != "" {
		requests = append(requests, backend.Request{
			Name:     "bookings.check_in_legacy",
			Method:   http.MethodPost,
			Path:     s.cfg.Backend.Endpoints.LegacyCheckIn,
			Body:     dto.LegacyCheckInPayload{BookingID: booking.ID, HostelID: bookingHostel(sess, booking)},
			Fallback: dto.MessageCheckInFailed,
		})
	}

	return requests
}

func (s *serviceImpl) RecordPayment(ctx context.Context, sess session.Session, booking model.Booking, req dto.RecordPaymentRequest) (res dto.PaymentResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RecordPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payload, err := req.ToPayload()
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	env, err := s.client.Do(ctx, sess, backend.Request{
		Name:     "bookings.payments.record",
		Method:   http.MethodPost,
		Path:     backend.Expand(s.cfg.Backend.Endpoints.BookingPayments, map[string]string{"id": formatID(booking.ID)}),
		Body:     payload,
		Fallback: dto.MessageRecordFailed,
	})
	if err != nil {
		log.Error().Err(err).Int64("booking_id", booking.ID).Msg("failed to record payment")

		return res, err //nolint:wrapcheck
	}

	res, _ = backend.Decode[dto.PaymentResult](env)
	res.Message = env.Message

	entry := s.entry(sess, booking, activityModel.ActionPaymentRecorded)
	entry.Amount = decimal.NewNullDecimal(payload.Amount)
	entry.Method = string(payload.Method)
	s.activity.Record(ctx, entry)

	return res, nil
}

func (s *serviceImpl) InitiateMobilePayment(ctx context.Context, sess session.Session, booking model.Booking, req dto.MobilePaymentRequest) (res dto.PaymentResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.InitiateMobilePayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payload, err := req.ToPayload(booking.StudentPhone)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	env, err := s.client.Do(ctx, sess, backend.Request{
		Name:     "bookings.payments.mobile_initiate",
		Method:   http.MethodPost,
		Path:     backend.Expand(s.cfg.Backend.Endpoints.MobileInitiate, map[string]string{"id": formatID(booking.ID)}),
		Body:     payload,
		Fallback: dto.MessageMobileFailed,
	})
	if err != nil {
		log.Error().Err(err).Int64("booking_id", booking.ID).Msg("failed to initiate mobile money payment")

		return res, err //nolint:wrapcheck
	}

	res, _ = backend.Decode[dto.PaymentResult](env)

	res.Message = env.Message
	if res.Message == "" {
		res.Message = dto.MessageMobileRequestSent
	}

	entry := s.entry(sess, booking, activityModel.ActionMobileInitiated)
	entry.Amount = decimal.NewNullDecimal(payload.Amount)
	entry.Method = string(model.PaymentMethodMobileMoney)
	s.activity.Record(ctx, entry)

	return res, nil
}

func (s *serviceImpl) entry(sess session.Session, booking model.Booking, action activityModel.Action) activityModel.Entry {
	return activityModel.Entry{
		HostelID:  bookingHostel(sess, booking),
		BookingID: booking.ID,
		Action:    action,
		Metadata:  gModel.Metadata{CreatedBy: sess.UserID},
	}
}

// bookingHostel is the hostel of booking, or the operator's when the backend
// left it out of the record.
func bookingHostel(sess session.Session, booking model.Booking) int64 {
	if booking.HostelID != 0 {
		return booking.HostelID
	}

	return sess.HostelID
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
