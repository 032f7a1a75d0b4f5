package desk_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

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
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/session"
)

var (
	staff      = session.Session{UserID: "op-1", Role: constant.RoleStaff, HostelID: 7, Token: "tkn"}
	superAdmin = session.Session{UserID: "root", Role: constant.RoleSuperAdmin, Token: "tkn"}
)

type fixture struct {
	bookings  *bookingMocks.MockBooking
	reference *referenceMocks.MockReference
	registry  *desk.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Backend.PageLimit = 20
	cfg.App.Desk.IdleMinutes = 30

	bookings := bookingMocks.NewMockBooking(ctrl)
	reference := referenceMocks.NewMockReference(ctrl)

	return fixture{
		bookings:  bookings,
		reference: reference,
		registry:  desk.NewRegistry(cfg, bookings, reference, mocks.NewOtel()),
	}
}

func (f fixture) workspace(t *testing.T, sess session.Session) *desk.Workspace {
	t.Helper()

	w, err := f.registry.Workspace(sess)
	require.NoError(t, err)

	return w
}

func page(bookings ...model.Booking) dto.BookingPage {
	return dto.BookingPage{Bookings: bookings, Page: 1, TotalPages: 1, Total: len(bookings)}
}

func booking(id int64, due, paid int64, status model.Status) model.Booking {
	return model.Booking{
		ID:           id,
		HostelID:     7,
		StudentPhone: "0244000000",
		Status:       status,
		AmountDue:    decimal.NewFromInt(due),
		AmountPaid:   decimal.NewFromInt(paid),
	}
}

func TestWorkspace_SetFilters_ResetsPage(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	var pages []int

	f.bookings.EXPECT().
		List(gomock.Any(), staff, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ session.Session, q dto.ListQuery) (dto.BookingPage, error) {
			pages = append(pages, q.Page)
			assert.Equal(t, int64(7), q.HostelID)
			assert.Equal(t, 20, q.Limit)

			return page(booking(1, 100, 0, model.StatusBooked)), nil
		}).
		Times(4)

	_, err := w.SetPage(context.Background(), staff, 3)
	require.NoError(t, err)

	_, err = w.SetFilters(context.Background(), staff, desk.Filters{Status: "booked"})
	require.NoError(t, err)

	_, err = w.SetPage(context.Background(), staff, 2)
	require.NoError(t, err)

	state, err := w.SetFilters(context.Background(), staff, desk.Filters{Status: "booked"})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 1, 2, 2}, pages)
	assert.Equal(t, 2, state.Page)
}

func TestWorkspace_SetPage_Invalid(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	_, err := w.SetPage(context.Background(), staff, 0)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestWorkspace_FetchBookings_NoHostel(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, superAdmin)

	state, err := w.FetchBookings(context.Background(), superAdmin)

	require.Error(t, err)
	assert.Equal(t, "Select a hostel to view bookings.", err.Error())
	assert.Equal(t, "Select a hostel to view bookings.", state.Error)
}

func TestWorkspace_FetchBookings_SuperAdminUsesSelectedHostel(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, superAdmin)

	f.bookings.EXPECT().
		List(gomock.Any(), superAdmin, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ session.Session, q dto.ListQuery) (dto.BookingPage, error) {
			assert.Equal(t, int64(12), q.HostelID)

			return page(), nil
		})

	_, err := w.SetFilters(context.Background(), superAdmin, desk.Filters{HostelID: 12})
	require.NoError(t, err)
}

func TestWorkspace_FetchBookings_ErrorKeepsList(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	gomock.InOrder(
		f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(page(booking(1, 100, 0, model.StatusBooked)), nil),
		f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(dto.BookingPage{}, failure.Unreachable("Unable to reach the hostel service.")),
	)

	_, err := w.FetchBookings(context.Background(), staff)
	require.NoError(t, err)

	state, err := w.FetchBookings(context.Background(), staff)

	require.Error(t, err)
	assert.Equal(t, "Unable to reach the hostel service.", state.Error)
	require.Len(t, state.Bookings, 1)
	assert.Equal(t, int64(1), state.Bookings[0].ID)
	assert.False(t, state.Loading)
}

func TestWorkspace_FetchBookings_LastRequestWins(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	started := make(chan struct{})
	release := make(chan struct{})

	gomock.InOrder(
		f.bookings.EXPECT().
			List(gomock.Any(), staff, gomock.Any()).
			DoAndReturn(func(context.Context, session.Session, dto.ListQuery) (dto.BookingPage, error) {
				close(started)
				<-release

				return page(booking(1, 100, 0, model.StatusBooked)), nil
			}),
		f.bookings.EXPECT().
			List(gomock.Any(), staff, gomock.Any()).
			Return(page(booking(2, 100, 0, model.StatusBooked)), nil),
	)

	slow := make(chan error, 1)

	go func() {
		_, err := w.FetchBookings(context.Background(), staff)
		slow <- err
	}()

	<-started

	state, err := w.FetchBookings(context.Background(), staff)
	require.NoError(t, err)
	require.Len(t, state.Bookings, 1)
	assert.Equal(t, int64(2), state.Bookings[0].ID)

	close(release)

	assert.ErrorIs(t, <-slow, desk.ErrSuperseded)

	final := w.ListState()
	require.Len(t, final.Bookings, 1)
	assert.Equal(t, int64(2), final.Bookings[0].ID)
}

func TestWorkspace_Project(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	f.reference.EXPECT().
		Rooms(gomock.Any(), staff, int64(7), int64(3)).
		Return([]model.Room{{ID: 11, Price: decimal.NewFromInt(500000)}}, nil)

	state, err := w.OpenCreate(context.Background(), staff, 3)
	require.NoError(t, err)
	assert.True(t, state.Open)
	assert.Len(t, state.Rooms, 1)

	projection := w.Project(dto.CreateBookingRequest{
		RoomID:        11,
		PaymentMethod: model.PaymentMethodCash,
		PaymentAmount: "200000",
	})

	assert.Equal(t, "300000", projection.ProjectedOutstanding.String())
}

func validDraft() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		SemesterID:    3,
		RoomID:        11,
		FullName:      "Ama Mensah",
		Email:         "ama@example.com",
		Phone:         "0244000000",
		PaymentMethod: model.PaymentMethodMobileMoney,
		PaymentAmount: "200000",
	}
}

func TestWorkspace_CreateBooking_ValidationSendsNothing(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	req := validDraft()
	req.Email = " "

	_, err := w.CreateBooking(context.Background(), staff, req)

	require.Error(t, err)
	assert.Equal(t, dto.MessageContactRequired, err.Error())

	view := w.View()
	assert.Equal(t, desk.PhaseFailed, view.Create.Flow.Phase)
	assert.Equal(t, dto.MessageContactRequired, view.Create.Flow.Reason)
}

func TestWorkspace_CreateBooking_AutoSendFailureDoesNotFailCreation(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	req := validDraft()
	req.AutoSendMobile = true

	created := booking(42, 500000, 0, model.StatusPending)

	f.bookings.EXPECT().
		Create(gomock.Any(), staff, int64(7), req).
		Return(dto.CreateBookingResult{Booking: created, MobileMoney: &dto.MobileMoneyTag{RequiresInitiation: true}}, nil)
	f.reference.EXPECT().InvalidateRooms(gomock.Any(), int64(7))
	f.bookings.EXPECT().
		InitiateMobilePayment(gomock.Any(), staff, created, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ session.Session, _ model.Booking, req dto.MobilePaymentRequest) (dto.PaymentResult, error) {
			assert.Equal(t, dto.Amount("200000"), req.Amount)
			assert.Equal(t, "0244000000", req.Phone)

			return dto.PaymentResult{}, failure.Upstream(http.StatusBadGateway, "Gateway timeout")
		})
	f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(page(created), nil)

	out, err := w.CreateBooking(context.Background(), staff, req)

	require.NoError(t, err)
	assert.True(t, out.PaymentOpened)
	assert.False(t, out.AutoSent)
	assert.Equal(t, "Gateway timeout", out.AutoSendError)

	assert.False(t, out.View.Create.Open)
	assert.Equal(t, desk.PhaseSucceeded, out.View.Create.Flow.Phase)
	assert.True(t, out.View.Payment.Open)
	require.NotNil(t, out.View.Payment.Booking)
	assert.Equal(t, int64(42), out.View.Payment.Booking.ID)
	assert.Equal(t, desk.PhaseFailed, out.View.Payment.Mobile.Phase)
	assert.Len(t, out.View.List.Bookings, 1)
}

func TestWorkspace_CreateBooking_AutoSendSuccess(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	req := validDraft()
	req.AutoSendMobile = true

	created := booking(42, 500000, 0, model.StatusPending)

	f.bookings.EXPECT().
		Create(gomock.Any(), staff, int64(7), req).
		Return(dto.CreateBookingResult{Booking: created, MobileMoney: &dto.MobileMoneyTag{RequiresInitiation: true}}, nil)
	f.reference.EXPECT().InvalidateRooms(gomock.Any(), int64(7))
	f.bookings.EXPECT().
		InitiateMobilePayment(gomock.Any(), staff, created, gomock.Any()).
		Return(dto.PaymentResult{Message: dto.MessageMobileRequestSent}, nil)
	f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(page(created), nil).Times(1)

	out, err := w.CreateBooking(context.Background(), staff, req)

	require.NoError(t, err)
	assert.True(t, out.AutoSent)
	assert.True(t, out.View.Payment.Open)
	assert.Equal(t, dto.MessageMobileRequestSent, out.View.Payment.MobileMessage)
}

func TestWorkspace_CreateBooking_WithoutInitiation(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	req := validDraft()
	req.PaymentMethod = model.PaymentMethodNone

	f.bookings.EXPECT().
		Create(gomock.Any(), staff, int64(7), req).
		Return(dto.CreateBookingResult{Booking: booking(42, 500000, 0, model.StatusPending)}, nil)
	f.reference.EXPECT().InvalidateRooms(gomock.Any(), int64(7))
	f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(page(), nil)

	out, err := w.CreateBooking(context.Background(), staff, req)

	require.NoError(t, err)
	assert.False(t, out.PaymentOpened)
	assert.False(t, out.View.Payment.Open)
}

func TestWorkspace_CreateBooking_BusyFlow(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	req := validDraft()
	req.PaymentMethod = model.PaymentMethodNone

	started := make(chan struct{})
	release := make(chan struct{})

	f.bookings.EXPECT().
		Create(gomock.Any(), staff, int64(7), req).
		DoAndReturn(func(context.Context, session.Session, int64, dto.CreateBookingRequest) (dto.CreateBookingResult, error) {
			close(started)
			<-release

			return dto.CreateBookingResult{}, errors.New("boom")
		})

	done := make(chan error, 1)

	go func() {
		_, err := w.CreateBooking(context.Background(), staff, req)
		done <- err
	}()

	<-started

	_, err := w.CreateBooking(context.Background(), staff, req)
	require.Error(t, err)
	assert.Equal(t, desk.MessageFlowBusy, err.Error())

	close(release)
	require.Error(t, <-done)

	assert.Equal(t, dto.MessageCreateFailed, w.View().Create.Flow.Reason)
}

func TestWorkspace_Verify(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	gomock.InOrder(
		f.bookings.EXPECT().Verify(gomock.Any(), staff, "3F9A2C").Return(booking(42, 100, 100, model.StatusBooked), nil),
		f.bookings.EXPECT().Verify(gomock.Any(), staff, "ZZZZ").Return(model.Booking{}, failure.Upstream(http.StatusNotFound, dto.MessageDetailLoadFailed)),
	)

	state, err := w.Verify(context.Background(), staff, " 3f9a2c")
	require.NoError(t, err)
	require.NotNil(t, state.Result)
	assert.True(t, state.CanCheckIn)
	assert.Equal(t, "3F9A2C", state.Code)

	state, err = w.Verify(context.Background(), staff, "zzzz")

	require.Error(t, err)
	assert.Nil(t, state.Result)
	assert.Equal(t, desk.PhaseFailed, state.Flow.Phase)
	assert.Equal(t, dto.MessageDetailLoadFailed, state.Flow.Reason)
}

func TestWorkspace_CheckInVerified(t *testing.T) {
	t.Run("requires a verified booking", func(t *testing.T) {
		f := newFixture(t)
		w := f.workspace(t, staff)

		_, err := w.CheckInVerified(context.Background(), staff)

		require.Error(t, err)
		assert.Equal(t, desk.MessageVerifyFirst, err.Error())
	})

	t.Run("outstanding balance is refused without a request", func(t *testing.T) {
		f := newFixture(t)
		w := f.workspace(t, staff)

		f.bookings.EXPECT().Verify(gomock.Any(), staff, "CODE").Return(booking(42, 500, 200, model.StatusBooked), nil)

		_, err := w.Verify(context.Background(), staff, "code")
		require.NoError(t, err)

		state, err := w.CheckInVerified(context.Background(), staff)

		require.Error(t, err)
		assert.Equal(t, dto.MessageBalanceOutstanding, err.Error())
		assert.Equal(t, desk.PhaseFailed, state.CheckIn.Phase)
	})

	t.Run("success refreshes the list", func(t *testing.T) {
		f := newFixture(t)
		w := f.workspace(t, staff)

		verified := booking(42, 500, 500, model.StatusBooked)
		checkedIn := verified
		checkedIn.Status = model.StatusCheckedIn

		f.bookings.EXPECT().Verify(gomock.Any(), staff, "CODE").Return(verified, nil)
		f.bookings.EXPECT().CheckIn(gomock.Any(), staff, verified).Return(checkedIn, nil)
		f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(page(checkedIn), nil)

		_, err := w.Verify(context.Background(), staff, "CODE")
		require.NoError(t, err)

		state, err := w.CheckInVerified(context.Background(), staff)

		require.NoError(t, err)
		assert.Equal(t, desk.PhaseSucceeded, state.CheckIn.Phase)
		assert.Equal(t, model.StatusCheckedIn, state.Result.Status)
		assert.False(t, state.CanCheckIn)
	})
}

func TestWorkspace_RecordPayment(t *testing.T) {
	t.Run("invalid amount sends nothing", func(t *testing.T) {
		f := newFixture(t)
		w := f.workspace(t, staff)

		state, err := w.RecordPayment(context.Background(), staff, 42, dto.RecordPaymentRequest{Amount: "abc"})

		require.Error(t, err)
		assert.Equal(t, dto.MessagePaymentAmountInvalid, err.Error())
		assert.Equal(t, dto.MessagePaymentAmountInvalid, state.Record.Reason)
	})

	t.Run("success closes the dialog and refreshes", func(t *testing.T) {
		f := newFixture(t)
		w := f.workspace(t, staff)

		target := booking(42, 500, 0, model.StatusPending)

		f.bookings.EXPECT().Get(gomock.Any(), staff, int64(42)).Return(target, nil)
		f.bookings.EXPECT().RecordPayment(gomock.Any(), staff, target, gomock.Any()).Return(dto.PaymentResult{}, nil)
		f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(page(), nil)

		opened, err := w.OpenPayment(context.Background(), staff, 42)
		require.NoError(t, err)
		assert.True(t, opened.Open)

		state, err := w.RecordPayment(context.Background(), staff, 42, dto.RecordPaymentRequest{Amount: "100"})

		require.NoError(t, err)
		assert.False(t, state.Open)
		assert.Equal(t, desk.PhaseSucceeded, state.Record.Phase)
	})

	t.Run("failure keeps the dialog open", func(t *testing.T) {
		f := newFixture(t)
		w := f.workspace(t, staff)

		target := booking(42, 500, 0, model.StatusPending)

		f.bookings.EXPECT().Get(gomock.Any(), staff, int64(42)).Return(target, nil)
		f.bookings.EXPECT().
			RecordPayment(gomock.Any(), staff, target, gomock.Any()).
			Return(dto.PaymentResult{}, failure.Rejected(dto.MessageRecordFailed))

		_, err := w.OpenPayment(context.Background(), staff, 42)
		require.NoError(t, err)

		state, err := w.RecordPayment(context.Background(), staff, 42, dto.RecordPaymentRequest{Amount: "100"})

		require.Error(t, err)
		assert.True(t, state.Open)
		assert.Equal(t, dto.MessageRecordFailed, state.Record.Reason)
		assert.Equal(t, desk.PhaseIdle, state.Mobile.Phase)
	})
}

func TestWorkspace_InitiateMobilePayment_KeepsDialogOpen(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	listed := booking(42, 500, 0, model.StatusPending)
	updated := listed
	updated.PaymentStatus = model.PaymentStatusPartial
	payment := model.Payment{ID: 9, Amount: decimal.NewFromInt(100), Method: model.PaymentMethodMobileMoney}

	gomock.InOrder(
		f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(page(listed), nil),
		f.bookings.EXPECT().
			InitiateMobilePayment(gomock.Any(), staff, listed, gomock.Any()).
			Return(dto.PaymentResult{Booking: &updated, Payment: &payment, Message: dto.MessageMobileRequestSent}, nil),
		f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(page(updated), nil),
	)

	_, err := w.FetchBookings(context.Background(), staff)
	require.NoError(t, err)

	_, err = w.OpenPayment(context.Background(), staff, 42)
	require.NoError(t, err)

	state, err := w.InitiateMobilePayment(context.Background(), staff, 42, dto.MobilePaymentRequest{Amount: "100"})

	require.NoError(t, err)
	assert.True(t, state.Open)
	assert.Equal(t, dto.MessageMobileRequestSent, state.MobileMessage)
	require.NotNil(t, state.Booking)
	assert.Equal(t, model.PaymentStatusPartial, state.Booking.PaymentStatus)
	require.NotNil(t, state.LastPayment)
	assert.Equal(t, int64(9), state.LastPayment.ID)
}

func TestWorkspace_Summary(t *testing.T) {
	f := newFixture(t)
	w := f.workspace(t, staff)

	cash := "CASH"
	mobile := "mobile_money"

	paid := booking(1, 100, 100, model.StatusBooked)
	paid.PaymentStatus = model.PaymentStatusPending
	paid.LatestPaymentMethod = &cash
	paid.LatestPaymentAmount = decimal.NewFromInt(100)

	partial := booking(2, 100, 40, model.StatusBooked)
	partial.PaymentStatus = model.PaymentStatusPartial
	partial.LatestPaymentMethod = &mobile
	partial.LatestPaymentAmount = decimal.NewFromInt(40)

	pending := booking(3, 100, 0, model.StatusPending)
	pending.PaymentStatus = model.PaymentStatusPending

	f.bookings.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(page(paid, partial, pending), nil)

	_, err := w.FetchBookings(context.Background(), staff)
	require.NoError(t, err)

	summary := w.Summary()

	assert.Equal(t, 1, summary.Paid)
	assert.Equal(t, 1, summary.Partial)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, "100", summary.CashTotal.String())
	assert.Equal(t, "40", summary.MobileTotal.String())
}
