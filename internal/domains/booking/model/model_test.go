package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"hostel/internal/domains/booking/model"
)

func ptr[T any](v T) *T {
	return &v
}

func TestBooking_Balance(t *testing.T) {
	tests := []struct {
		name string
		due  int64
		paid int64
		want int64
	}{
		{name: "outstanding", due: 500000, paid: 200000, want: 300000},
		{name: "settled", due: 500000, paid: 500000, want: 0},
		{name: "overpaid floors at zero", due: 500000, paid: 650000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := model.Booking{AmountDue: decimal.NewFromInt(tt.due), AmountPaid: decimal.NewFromInt(tt.paid)}

			assert.True(t, decimal.NewFromInt(tt.want).Equal(booking.Balance()))
		})
	}
}

func TestBooking_CanCheckIn(t *testing.T) {
	tests := []struct {
		name    string
		booking model.Booking
		want    bool
	}{
		{
			name:    "balance outstanding",
			booking: model.Booking{Status: model.StatusBooked, AmountDue: decimal.NewFromInt(500), AmountPaid: decimal.NewFromInt(499)},
		},
		{
			name:    "paid and booked",
			booking: model.Booking{Status: model.StatusBooked, AmountDue: decimal.NewFromInt(500), AmountPaid: decimal.NewFromInt(500)},
			want:    true,
		},
		{
			name:    "already checked in",
			booking: model.Booking{Status: model.StatusCheckedIn, AmountDue: decimal.NewFromInt(500), AmountPaid: decimal.NewFromInt(500)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.booking.CanCheckIn())
		})
	}
}

func TestSummarize(t *testing.T) {
	bookings := []model.Booking{
		{
			// pending on paper but fully paid
			PaymentStatus:       model.PaymentStatusPending,
			AmountDue:           decimal.NewFromInt(500),
			AmountPaid:          decimal.NewFromInt(500),
			LatestPaymentAmount: decimal.NewFromInt(500),
			LatestPaymentMethod: ptr("Cash"),
		},
		{
			PaymentStatus:       model.PaymentStatusPartial,
			AmountDue:           decimal.NewFromInt(500),
			AmountPaid:          decimal.NewFromInt(200),
			LatestPaymentAmount: decimal.NewFromInt(200),
			LatestPaymentMethod: ptr("MOBILE_MONEY"),
		},
		{
			PaymentStatus: model.PaymentStatusPending,
			AmountDue:     decimal.NewFromInt(500),
			AmountPaid:    decimal.Zero,
		},
		{
			PaymentStatus:       model.PaymentStatusPaid,
			AmountDue:           decimal.NewFromInt(300),
			AmountPaid:          decimal.NewFromInt(300),
			LatestPaymentAmount: decimal.NewFromInt(100),
			LatestPaymentMethod: ptr("cash"),
		},
	}

	summary := model.Summarize(bookings)

	assert.Equal(t, 2, summary.Paid)
	assert.Equal(t, 1, summary.Partial)
	assert.Equal(t, 1, summary.Pending)
	assert.True(t, decimal.NewFromInt(600).Equal(summary.CashTotal))
	assert.True(t, decimal.NewFromInt(200).Equal(summary.MobileTotal))
}

func TestSummarize_Empty(t *testing.T) {
	summary := model.Summarize(nil)

	assert.Zero(t, summary.Paid+summary.Partial+summary.Pending)
	assert.True(t, summary.CashTotal.IsZero())
}
