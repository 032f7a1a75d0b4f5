// Package desk holds the front-desk state of each operator: the booking list
// with its filters, the create, verify and payment dialogs, and the flows that
// move them. A Workspace is the only place that state changes; the booking and
// reference services it calls are stateless.
package desk

import (
	"context"
	"errors"
	"hostel/infras/metrics"
	"hostel/infras/otel"
	"hostel/internal/domains/booking/model"
	"hostel/internal/domains/booking/model/dto"
	bookingService "hostel/internal/domains/booking/service"
	referenceService "hostel/internal/domains/reference/service"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/logger"
	"hostel/shared/session"
	"net/http"
	"slices"
	"sync"
	"time"
)

const MessageVerifyFirst = "Verify a booking code first."

// ErrSuperseded is returned to a list fetch whose answer arrived after a newer fetch was issued.
var ErrSuperseded = &failure.Failure{Code: http.StatusConflict, Message: "A newer booking list request replaced this one."}

type Filters struct {
	HostelID      int64  `json:"hostel_id"      validate:"gte=0"`
	Status        string `json:"status"         validate:"omitempty,oneof=pending booked checked_in cancelled no_show expired"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=pending partial paid"`
	SemesterID    int64  `json:"semester_id"    validate:"gte=0"`
	Search        string `json:"search"         validate:"max=100"`
}

type PageRequest struct {
	Page int `json:"page" validate:"required,gte=1"`
}

type OpenCreateRequest struct {
	SemesterID int64 `json:"semester_id" validate:"gte=0"`
}

type OpenPaymentRequest struct {
	BookingID int64 `json:"booking_id" validate:"required,gt=0"`
}

type ListState struct {
	Filters    Filters         `json:"filters"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Total      int             `json:"total"`
	Bookings   []model.Booking `json:"bookings"`
	Loading    bool            `json:"loading"`
	Error      string          `json:"error,omitempty"`
}

type CreateState struct {
	Open        bool           `json:"open"`
	SemesterID  int64          `json:"semester_id,omitempty"`
	Rooms       []model.Room   `json:"rooms"`
	Flow        Flow           `json:"flow"`
	LastBooking *model.Booking `json:"last_booking,omitempty"`
}

type PaymentState struct {
	Open          bool           `json:"open"`
	Booking       *model.Booking `json:"booking,omitempty"`
	LastPayment   *model.Payment `json:"last_payment,omitempty"`
	MobileMessage string         `json:"mobile_message,omitempty"`
	Record        Flow           `json:"record"`
	Mobile        Flow           `json:"mobile"`
}

type VerifyState struct {
	Code       string         `json:"code"`
	Result     *model.Booking `json:"result,omitempty"`
	CanCheckIn bool           `json:"can_check_in"`
	Flow       Flow           `json:"flow"`
	CheckIn    Flow           `json:"check_in"`
}

// View is a copy of the whole workspace as the dashboard renders it.
type View struct {
	List    ListState     `json:"list"`
	Summary model.Summary `json:"summary"`
	Create  CreateState   `json:"create"`
	Payment PaymentState  `json:"payment"`
	Verify  VerifyState   `json:"verify"`
}

// CreateOutcome reports what followed a successful booking creation.
type CreateOutcome struct {
	Result        dto.CreateBookingResult `json:"result"`
	PaymentOpened bool                    `json:"payment_opened"`
	AutoSent      bool                    `json:"auto_sent"`
	AutoSendError string                  `json:"auto_send_error,omitempty"`
	View          View                    `json:"view"`
}

type Workspace struct {
	mu sync.Mutex

	key       string
	bookings  bookingService.Booking
	reference referenceService.Reference
	otel      otel.Otel
	pageLimit int
	now       func() time.Time

	// token is the last list request issued; only its answer is applied.
	token    uint64
	lastSeen time.Time

	list    ListState
	create  CreateState
	payment PaymentState
	verify  VerifyState
}

func newWorkspace(key string, bookings bookingService.Booking, reference referenceService.Reference, ot otel.Otel, pageLimit int, now func() time.Time) *Workspace {
	return &Workspace{
		key:       key,
		bookings:  bookings,
		reference: reference,
		otel:      ot,
		pageLimit: pageLimit,
		now:       now,
		lastSeen:  now(),
		list:      ListState{Page: 1, TotalPages: 1, Bookings: []model.Booking{}},
		create:    CreateState{Rooms: []model.Room{}, Flow: newFlow(flowCreate)},
		payment:   PaymentState{Record: newFlow(flowRecord), Mobile: newFlow(flowMobile)},
		verify:    VerifyState{Flow: newFlow(flowVerify), CheckIn: newFlow(flowCheckIn)},
	}
}

// SetFilters replaces the filters. Any change sends the list back to page 1.
func (w *Workspace) SetFilters(ctx context.Context, sess session.Session, filters Filters) (ListState, error) {
	w.mu.Lock()
	w.touch()

	if filters != w.list.Filters {
		w.list.Filters = filters
		w.list.Page = 1
	}
	w.mu.Unlock()

	return w.FetchBookings(ctx, sess)
}

func (w *Workspace) SetPage(ctx context.Context, sess session.Session, page int) (ListState, error) {
	if page < 1 {
		return w.ListState(), failure.InvalidPageParam
	}

	w.mu.Lock()
	w.touch()
	w.list.Page = page
	w.mu.Unlock()

	return w.FetchBookings(ctx, sess)
}

// FetchBookings loads the current page with the current filters. A failure
// keeps the bookings already shown; an answer overtaken by a newer fetch is
// dropped and reported as ErrSuperseded.
func (w *Workspace) FetchBookings(ctx context.Context, sess session.Session) (res ListState, err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelDeskScopeName, constant.OtelDeskScopeName+".FetchBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	w.mu.Lock()
	w.touch()

	hostelID := sess.ResolveHostel(w.list.Filters.HostelID)
	if hostelID <= 0 {
		w.list.Error = failure.HostelRequiredError.Message
		res = w.listSnapshot()
		w.mu.Unlock()

		return res, failure.HostelRequiredError
	}

	w.token++
	token := w.token
	query := dto.ListQuery{
		HostelID:      hostelID,
		Status:        w.list.Filters.Status,
		PaymentStatus: w.list.Filters.PaymentStatus,
		SemesterID:    w.list.Filters.SemesterID,
		Search:        w.list.Filters.Search,
		Page:          w.list.Page,
		Limit:         w.pageLimit,
	}
	w.list.Loading = true
	w.mu.Unlock()

	scope.SetAttribute("desk.list_token", token)

	page, err := w.bookings.List(ctx, sess, query)

	w.mu.Lock()
	defer w.mu.Unlock()

	if token != w.token {
		metrics.ObserveFlow(flowList, metrics.OutcomeStale)
		logger.FromContext(ctx).Debug().Str("workspace", w.key).Uint64("token", token).Uint64("latest", w.token).Msg("discarding superseded booking list")

		return w.listSnapshot(), ErrSuperseded
	}

	w.list.Loading = false

	if err != nil {
		w.list.Error = failure.Message(err, dto.MessageFetchFailed)
		metrics.ObserveFlow(flowList, metrics.OutcomeRejected)
		logger.FromContext(ctx).Error().Err(err).Str("workspace", w.key).Msg("failed to fetch bookings")

		return w.listSnapshot(), err
	}

	w.list.Bookings = page.Bookings
	w.list.TotalPages = page.TotalPages
	w.list.Total = page.Total
	w.list.Error = ""
	metrics.ObserveFlow(flowList, metrics.OutcomeSuccess)

	return w.listSnapshot(), nil
}

// OpenCreate opens the booking form and loads the rooms of semesterID for it.
func (w *Workspace) OpenCreate(ctx context.Context, sess session.Session, semesterID int64) (CreateState, error) {
	w.mu.Lock()
	w.touch()
	hostelID := sess.ResolveHostel(w.list.Filters.HostelID)
	w.mu.Unlock()

	rooms := []model.Room{}

	if semesterID > 0 {
		loaded, err := w.reference.Rooms(ctx, sess, hostelID, semesterID)
		if err != nil {
			return w.createSnapshot(), err //nolint:wrapcheck
		}

		rooms = loaded
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.create.Open = true
	w.create.SemesterID = semesterID
	w.create.Rooms = rooms

	if !w.create.Flow.Busy() {
		w.create.Flow.reset(w.now())
	}

	return w.createSnapshotLocked(), nil
}

func (w *Workspace) CloseCreate() CreateState {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.touch()
	w.create.Open = false

	return w.createSnapshotLocked()
}

// Project computes the form display values of draft against the rooms loaded by OpenCreate.
func (w *Workspace) Project(draft dto.CreateBookingRequest) dto.Projection {
	w.mu.Lock()
	rooms := w.create.Rooms
	w.mu.Unlock()

	return dto.Project(draft, rooms)
}

// CreateBooking validates and submits the booking form. On success the form
// closes, the payment dialog opens when the mobile money payment still has to
// be pushed (and is pushed right away when AutoSendMobile is set) and the list
// is refreshed. An auto-send failure never fails the creation.
func (w *Workspace) CreateBooking(ctx context.Context, sess session.Session, req dto.CreateBookingRequest) (out CreateOutcome, err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelDeskScopeName, constant.OtelDeskScopeName+".CreateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	w.mu.Lock()
	w.touch()

	if err = w.create.Flow.begin(w.now()); err != nil {
		w.mu.Unlock()

		return out, err
	}

	selected := req.HostelID
	if selected == 0 {
		selected = w.list.Filters.HostelID
	}

	hostelID := sess.ResolveHostel(selected)
	if hostelID <= 0 {
		w.create.Flow.fail(failure.HostelRequiredError.Message, true, w.now())
		w.mu.Unlock()

		return out, failure.HostelRequiredError
	}

	if err = req.Check(); err != nil {
		w.create.Flow.fail(failure.Message(err, dto.MessageCreateFailed), true, w.now())
		w.mu.Unlock()

		return out, err
	}

	w.create.Flow.submit(w.now())
	w.mu.Unlock()

	result, err := w.bookings.Create(ctx, sess, hostelID, req)

	w.mu.Lock()
	if err != nil {
		w.create.Flow.fail(failure.Message(err, dto.MessageCreateFailed), false, w.now())
		w.mu.Unlock()

		return out, err
	}

	w.create.Flow.succeed(w.now())
	w.create.Open = false
	created := result.Booking
	w.create.LastBooking = &created

	out.Result = result
	if result.RequiresInitiation() {
		w.openPaymentLocked(created)
		out.PaymentOpened = true
	}
	w.mu.Unlock()

	w.reference.InvalidateRooms(ctx, hostelID)

	refreshed := false

	if out.PaymentOpened && req.AutoSendMobile && req.Method() == model.PaymentMethodMobileMoney {
		_, sendErr := w.initiateMobile(ctx, sess, created.ID, dto.MobilePaymentRequest{
			Amount: req.PaymentAmount,
			Phone:  req.MobilePhone(),
			Notes:  req.PaymentNotes,
		})

		out.AutoSent = sendErr == nil
		refreshed = out.AutoSent

		if sendErr != nil {
			out.AutoSendError = failure.Message(sendErr, dto.MessageMobileFailed)
			logger.FromContext(ctx).Warn().Err(sendErr).Int64("booking_id", created.ID).Msg("automatic mobile money request failed")
		}
	}

	if !refreshed {
		w.refresh(ctx, sess)
	}

	out.View = w.View()

	return out, nil
}

// Verify looks a code up and loads its booking. Any failure clears the previous result.
func (w *Workspace) Verify(ctx context.Context, sess session.Session, code string) (res VerifyState, err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelDeskScopeName, constant.OtelDeskScopeName+".Verify")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	w.mu.Lock()
	w.touch()

	if err = w.verify.Flow.begin(w.now()); err != nil {
		w.mu.Unlock()

		return w.verifySnapshot(), err
	}

	code = dto.NormalizeCode(code)
	w.verify.Code = code
	w.verify.CheckIn.reset(w.now())

	if code == "" {
		w.verify.Result = nil
		w.verify.Flow.fail(dto.MessageCodeRequired, true, w.now())
		w.mu.Unlock()

		return w.verifySnapshot(), failure.BadRequestFromString(dto.MessageCodeRequired)
	}

	w.verify.Flow.submit(w.now())
	w.mu.Unlock()

	booking, err := w.bookings.Verify(ctx, sess, code)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.verify.Result = nil
		w.verify.Flow.fail(failure.Message(err, dto.MessageVerifyFailed), false, w.now())

		return w.verifySnapshotLocked(), err
	}

	w.verify.Result = &booking
	w.verify.Flow.succeed(w.now())

	return w.verifySnapshotLocked(), nil
}

// CheckInVerified checks in the booking found by the last successful Verify.
func (w *Workspace) CheckInVerified(ctx context.Context, sess session.Session) (res VerifyState, err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelDeskScopeName, constant.OtelDeskScopeName+".CheckInVerified")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	w.mu.Lock()
	w.touch()

	if w.verify.Result == nil {
		w.mu.Unlock()

		return w.verifySnapshot(), failure.BadRequestFromString(MessageVerifyFirst)
	}

	if err = w.verify.CheckIn.begin(w.now()); err != nil {
		w.mu.Unlock()

		return w.verifySnapshot(), err
	}

	booking := *w.verify.Result

	if reason, blocked := checkInBlocked(booking); blocked != nil {
		w.verify.CheckIn.fail(reason, true, w.now())
		w.mu.Unlock()

		return w.verifySnapshot(), blocked
	}

	w.verify.CheckIn.submit(w.now())
	w.mu.Unlock()

	updated, err := w.bookings.CheckIn(ctx, sess, booking)

	w.mu.Lock()
	if err != nil {
		w.verify.CheckIn.fail(failure.Message(err, dto.MessageCheckInFailed), false, w.now())
		res = w.verifySnapshotLocked()
		w.mu.Unlock()

		return res, err
	}

	w.verify.CheckIn.succeed(w.now())
	w.mergeBookingLocked(updated)
	w.mu.Unlock()

	w.refresh(ctx, sess)

	return w.verifySnapshot(), nil
}

func checkInBlocked(booking model.Booking) (string, error) {
	switch {
	case booking.Status == model.StatusCheckedIn:
		return dto.MessageAlreadyCheckedIn, failure.Conflict(dto.MessageAlreadyCheckedIn)
	case !booking.CanCheckIn():
		return dto.MessageBalanceOutstanding, failure.BadRequestFromString(dto.MessageBalanceOutstanding)
	default:
		return "", nil
	}
}

// OpenPayment opens the payment dialog on bookingID, taken from the loaded
// page when present and fetched otherwise.
func (w *Workspace) OpenPayment(ctx context.Context, sess session.Session, bookingID int64) (PaymentState, error) {
	booking, err := w.targetBooking(ctx, sess, bookingID)
	if err != nil {
		return w.paymentSnapshot(), err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.openPaymentLocked(booking)

	return w.paymentSnapshotLocked(), nil
}

func (w *Workspace) ClosePayment() PaymentState {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.touch()
	w.payment.Open = false
	w.payment.Booking = nil
	w.payment.MobileMessage = ""
	w.payment.LastPayment = nil

	return w.paymentSnapshotLocked()
}

// RecordPayment records a manual receipt. Success closes the payment dialog
// and refreshes the list.
func (w *Workspace) RecordPayment(ctx context.Context, sess session.Session, bookingID int64, req dto.RecordPaymentRequest) (res PaymentState, err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelDeskScopeName, constant.OtelDeskScopeName+".RecordPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	w.mu.Lock()
	w.touch()

	if err = w.payment.Record.begin(w.now()); err != nil {
		w.mu.Unlock()

		return w.paymentSnapshot(), err
	}

	if _, err = req.ToPayload(); err != nil {
		w.payment.Record.fail(failure.Message(err, dto.MessagePaymentAmountInvalid), true, w.now())
		w.mu.Unlock()

		return w.paymentSnapshot(), err
	}

	w.payment.Record.submit(w.now())
	w.mu.Unlock()

	booking, err := w.targetBooking(ctx, sess, bookingID)
	if err == nil {
		var result dto.PaymentResult

		result, err = w.bookings.RecordPayment(ctx, sess, booking, req)
		if err == nil && result.Booking != nil {
			w.mu.Lock()
			w.mergeBookingLocked(*result.Booking)
			w.mu.Unlock()
		}
	}

	w.mu.Lock()
	if err != nil {
		w.payment.Record.fail(failure.Message(err, dto.MessageRecordFailed), false, w.now())
		res = w.paymentSnapshotLocked()
		w.mu.Unlock()

		return res, err
	}

	w.payment.Record.succeed(w.now())

	if w.paymentTargetsLocked(bookingID) {
		w.payment.Open = false
		w.payment.Booking = nil
		w.payment.MobileMessage = ""
	}
	w.mu.Unlock()

	w.refresh(ctx, sess)

	return w.paymentSnapshot(), nil
}

// InitiateMobilePayment pushes a mobile money prompt. The dialog stays open
// so the operator sees the confirmation; the list is refreshed.
func (w *Workspace) InitiateMobilePayment(ctx context.Context, sess session.Session, bookingID int64, req dto.MobilePaymentRequest) (PaymentState, error) {
	return w.initiateMobile(ctx, sess, bookingID, req)
}

func (w *Workspace) initiateMobile(ctx context.Context, sess session.Session, bookingID int64, req dto.MobilePaymentRequest) (res PaymentState, err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelDeskScopeName, constant.OtelDeskScopeName+".InitiateMobilePayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	w.mu.Lock()
	w.touch()

	if err = w.payment.Mobile.begin(w.now()); err != nil {
		w.mu.Unlock()

		return w.paymentSnapshot(), err
	}

	if _, ok := req.Amount.Positive(); !ok {
		w.payment.Mobile.fail(dto.MessagePaymentAmountInvalid, true, w.now())
		w.mu.Unlock()

		return w.paymentSnapshot(), failure.BadRequestFromString(dto.MessagePaymentAmountInvalid)
	}

	w.payment.Mobile.submit(w.now())
	w.mu.Unlock()

	var result dto.PaymentResult

	booking, err := w.targetBooking(ctx, sess, bookingID)
	if err == nil {
		result, err = w.bookings.InitiateMobilePayment(ctx, sess, booking, req)
	}

	w.mu.Lock()
	if err != nil {
		w.payment.Mobile.fail(failure.Message(err, dto.MessageMobileFailed), false, w.now())
		res = w.paymentSnapshotLocked()
		w.mu.Unlock()

		return res, err
	}

	w.payment.Mobile.succeed(w.now())

	if result.Booking != nil {
		w.mergeBookingLocked(*result.Booking)
	}

	if w.paymentTargetsLocked(bookingID) {
		w.payment.MobileMessage = result.Message
		if result.Payment != nil {
			payment := *result.Payment
			w.payment.LastPayment = &payment
		}
	}
	w.mu.Unlock()

	w.refresh(ctx, sess)

	return w.paymentSnapshot(), nil
}

func (w *Workspace) Summary() model.Summary {
	w.mu.Lock()
	defer w.mu.Unlock()

	return model.Summarize(w.list.Bookings)
}

func (w *Workspace) ListState() ListState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.listSnapshot()
}

func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	return View{
		List:    w.listSnapshot(),
		Summary: model.Summarize(w.list.Bookings),
		Create:  w.createSnapshotLocked(),
		Payment: w.paymentSnapshotLocked(),
		Verify:  w.verifySnapshotLocked(),
	}
}

// refresh reloads the list after a mutation. Its failure only shows on the list.
func (w *Workspace) refresh(ctx context.Context, sess session.Session) {
	if _, err := w.FetchBookings(ctx, sess); err != nil && !errors.Is(err, ErrSuperseded) {
		logger.FromContext(ctx).Warn().Err(err).Str("workspace", w.key).Msg("failed to refresh bookings")
	}
}

func (w *Workspace) targetBooking(ctx context.Context, sess session.Session, bookingID int64) (model.Booking, error) {
	w.mu.Lock()
	if w.payment.Booking != nil && w.payment.Booking.ID == bookingID {
		booking := *w.payment.Booking
		w.mu.Unlock()

		return booking, nil
	}

	if i := slices.IndexFunc(w.list.Bookings, func(b model.Booking) bool { return b.ID == bookingID }); i >= 0 {
		booking := w.list.Bookings[i]
		w.mu.Unlock()

		return booking, nil
	}
	w.mu.Unlock()

	return w.bookings.Get(ctx, sess, bookingID) //nolint:wrapcheck
}

func (w *Workspace) openPaymentLocked(booking model.Booking) {
	w.touch()

	w.payment.Open = true
	w.payment.Booking = &booking
	w.payment.LastPayment = nil
	w.payment.MobileMessage = ""

	if !w.payment.Record.Busy() {
		w.payment.Record.reset(w.now())
	}

	if !w.payment.Mobile.Busy() {
		w.payment.Mobile.reset(w.now())
	}
}

func (w *Workspace) paymentTargetsLocked(bookingID int64) bool {
	return w.payment.Open && w.payment.Booking != nil && w.payment.Booking.ID == bookingID
}

// mergeBookingLocked replaces every copy of updated held by the workspace.
func (w *Workspace) mergeBookingLocked(updated model.Booking) {
	if w.payment.Booking != nil && w.payment.Booking.ID == updated.ID {
		booking := updated
		w.payment.Booking = &booking
	}

	if w.verify.Result != nil && w.verify.Result.ID == updated.ID {
		booking := updated
		w.verify.Result = &booking
	}

	for i := range w.list.Bookings {
		if w.list.Bookings[i].ID == updated.ID {
			w.list.Bookings[i] = updated
		}
	}
}

func (w *Workspace) touch() {
	w.lastSeen = w.now()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastSeen
}

func (w *Workspace) listSnapshot() ListState {
	state := w.list
	state.Bookings = slices.Clone(w.list.Bookings)

	return state
}

func (w *Workspace) createSnapshot() CreateState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.createSnapshotLocked()
}

func (w *Workspace) createSnapshotLocked() CreateState {
	state := w.create
	state.Rooms = slices.Clone(w.create.Rooms)
	state.LastBooking = clonePtr(w.create.LastBooking)

	return state
}

func (w *Workspace) paymentSnapshot() PaymentState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.paymentSnapshotLocked()
}

func (w *Workspace) paymentSnapshotLocked() PaymentState {
	state := w.payment
	state.Booking = clonePtr(w.payment.Booking)
	state.LastPayment = clonePtr(w.payment.LastPayment)

	return state
}

func (w *Workspace) verifySnapshot() VerifyState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.verifySnapshotLocked()
}

func (w *Workspace) verifySnapshotLocked() VerifyState {
	state := w.verify
	state.Result = clonePtr(w.verify.Result)
	state.CanCheckIn = state.Result != nil && state.Result.CanCheckIn()

	return state
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}
