package model

import (
	"hostel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "desk_activity"
	EntityName = "activity"

	FieldID        = "id"
	FieldHostelID  = "hostel_id"
	FieldAction    = "action"
	FieldBookingID = "booking_id"
	FieldCreatedAt = "created_at"
)

type Action string

const (
	ActionBookingCreated   Action = "booking.created"
	ActionPaymentRecorded  Action = "payment.recorded"
	ActionMobileInitiated  Action = "payment.mobile_initiated"
	ActionBookingCheckedIn Action = "booking.checked_in"
)

// Entry is one successful desk mutation.
type Entry struct {
	ID        string              `db:"id"`
	HostelID  int64               `db:"hostel_id"`
	BookingID int64               `db:"booking_id"`
	Action    Action              `db:"action"`
	Amount    decimal.NullDecimal `db:"amount"`
	Method    string              `db:"method"`
	RequestID string              `db:"request_id"`
	model.Metadata
}
