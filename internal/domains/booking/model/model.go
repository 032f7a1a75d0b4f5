package model

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The hostel backend expects JSON numbers for money, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	EntityName = "booking"

	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldSemesterID    = "semester_id"
	FieldSearch        = "search"
	FieldHostelID      = "hostel_id"
	FieldPage          = "page"
	FieldLimit         = "limit"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusBooked    Status = "booked"
	StatusCheckedIn Status = "checked_in"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
	StatusExpired   Status = "expired"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentMethodNone        PaymentMethod = "none"
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
)

// Booking mirrors the backend record. The latest_payment_* fields are
// denormalized by the backend for list display.
type Booking struct {
	ID                  int64           `json:"id"`
	HostelID            int64           `json:"hostel_id"`
	SemesterID          *int64          `json:"semester_id"`
	SemesterName        string          `json:"semester_name,omitempty"`
	StudentName         string          `json:"student_name"`
	StudentEmail        string          `json:"student_email"`
	StudentPhone        string          `json:"student_phone"`
	RoomID              *int64          `json:"room_id"`
	RoomNumber          string          `json:"room_number,omitempty"`
	Currency            string          `json:"currency"`
	AmountDue           decimal.Decimal `json:"amount_due"`
	AmountPaid          decimal.Decimal `json:"amount_paid"`
	PaymentStatus       PaymentStatus   `json:"payment_status"`
	Status              Status          `json:"status"`
	VerificationCode    *string         `json:"verification_code"`
	LatestPaymentAmount decimal.Decimal `json:"latest_payment_amount"`
	LatestPaymentMethod *string         `json:"latest_payment_method"`
	LatestPaymentStatus *string         `json:"latest_payment_status"`
	LatestPaymentAt     *string         `json:"latest_payment_at"`
	CreatedAt           string          `json:"created_at,omitempty"`
	Payments            []Payment       `json:"payments,omitempty"`
}

// Balance is amount_due - amount_paid floored at zero.
func (b Booking) Balance() decimal.Decimal {
	balance := b.AmountDue.Sub(b.AmountPaid)
	if balance.IsNegative() {
		return decimal.Zero
	}

	return balance
}

// CanCheckIn allows check-in only once nothing is outstanding and the
// booking has not been checked in yet.
func (b Booking) CanCheckIn() bool {
	return !b.Balance().IsPositive() && b.Status != StatusCheckedIn
}

type Payment struct {
	ID         int64           `json:"id"`
	BookingID  int64           `json:"booking_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	Status     string          `json:"status"`
	Reference  *string         `json:"reference"`
	Notes      *string         `json:"notes"`
	RecordedBy *string         `json:"recorded_by"`
	RecordedAt string          `json:"recorded_at,omitempty"`
}

type Semester struct {
	ID        int64  `json:"id"`
	HostelID  int64  `json:"hostel_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsCurrent bool   `json:"is_current"`
}

type Room struct {
	ID              int64           `json:"id"`
	HostelID        int64           `json:"hostel_id"`
	RoomNumber      string          `json:"room_number"`
	RoomType        string          `json:"room_type,omitempty"`
	Capacity        int             `json:"capacity"`
	AvailableSpaces int             `json:"available_spaces"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency,omitempty"`
}

// FindRoom returns the room with id from rooms.
func FindRoom(rooms []Room, id int64) (Room, bool) {
	for _, room := range rooms {
		if room.ID == id {
			return room, true
		}
	}

	return Room{}, false
}
