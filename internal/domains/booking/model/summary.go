package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Summary aggregates the bookings currently loaded, one page only.
type Summary struct {
	Paid        int             `json:"paid"`
	Partial     int             `json:"partial"`
	Pending     int             `json:"pending"`
	CashTotal   decimal.Decimal `json:"cash_total"`
	MobileTotal decimal.Decimal `json:"mobile_total"`
}

// Summarize counts paid before partial before pending, so a zero balance is
// paid whatever payment_status says. Channel totals sum latest_payment_amount
// by latest_payment_method, compared case-insensitively.
func Summarize(bookings []Booking) Summary {
	summary := Summary{CashTotal: decimal.Zero, MobileTotal: decimal.Zero}

	for _, booking := range bookings {
		switch {
		case booking.PaymentStatus == PaymentStatusPaid || booking.Balance().IsZero():
			summary.Paid++
		case booking.PaymentStatus == PaymentStatusPartial:
			summary.Partial++
		default:
			summary.Pending++
		}

		if booking.LatestPaymentMethod == nil {
			continue
		}

		switch PaymentMethod(strings.ToLower(strings.TrimSpace(*booking.LatestPaymentMethod))) {
		case PaymentMethodCash:
			summary.CashTotal = summary.CashTotal.Add(booking.LatestPaymentAmount)
		case PaymentMethodMobileMoney:
			summary.MobileTotal = summary.MobileTotal.Add(booking.LatestPaymentAmount)
		case PaymentMethodNone:
		}
	}

	return summary
}
