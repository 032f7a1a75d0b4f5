package dto

import (
	"hostel/internal/domains/booking/model"
	"hostel/shared"
	"hostel/shared/failure"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MessageSelectSemesterAndRoom = "Please select a semester and room."
	MessageContactRequired       = "Full name, email and phone are required."
	MessageInitialAmountInvalid  = "Enter a valid initial payment amount."
	MessageMobilePhoneRequired   = "Enter a phone number for the mobile money request."
	MessagePaymentAmountInvalid  = "Enter a valid payment amount."
	MessageCodeRequired          = "Enter a verification code."
	MessageDetailLoadFailed      = "Failed to load booking details for this code."
	MessageVerifyFailed          = "Invalid verification code."
	MessageFetchFailed           = "Failed to fetch bookings"
	MessageCreateFailed          = "Failed to create booking"
	MessageRecordFailed          = "Failed to record payment"
	MessageMobileFailed          = "Failed to send mobile money request"
	MessageCheckInFailed         = "Failed to check in booking"
	MessageBalanceOutstanding    = "Booking must be fully paid before check-in."
	MessageAlreadyCheckedIn      = "Booking is already checked in."
	MessageMobileRequestSent     = "Mobile money request sent. Ask the student to approve the prompt on their phone."
)

// ListQuery is the filter and page state sent to the booking list endpoint.
type ListQuery struct {
	HostelID      int64
	Status        string
	PaymentStatus string
	SemesterID    int64
	Search        string
	Page          int
	Limit         int
}

// Values encodes the query, leaving out empty filters.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	values.Set(model.FieldHostelID, strconv.FormatInt(q.HostelID, 10))
	values.Set(model.FieldPage, strconv.Itoa(max(q.Page, 1)))

	if q.Limit > 0 {
		values.Set(model.FieldLimit, strconv.Itoa(q.Limit))
	}

	if q.Status != "" {
		values.Set(model.FieldStatus, q.Status)
	}

	if q.PaymentStatus != "" {
		values.Set(model.FieldPaymentStatus, q.PaymentStatus)
	}

	if q.SemesterID > 0 {
		values.Set(model.FieldSemesterID, strconv.FormatInt(q.SemesterID, 10))
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set(model.FieldSearch, search)
	}

	return values
}

type BookingPage struct {
	Bookings   []model.Booking `json:"bookings"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Total      int             `json:"total"`
}

// CreateBookingRequest is the booking form of the desk.
type CreateBookingRequest struct {
	HostelID         int64               `json:"hostel_id"`
	SemesterID       int64               `json:"semester_id"`
	RoomID           int64               `json:"room_id"`
	FullName         string              `json:"full_name"         validate:"max=150"`
	Email            string              `json:"email"             validate:"max=150"`
	Phone            string              `json:"phone"             validate:"omitempty,max=30,phone"`
	Gender           string              `json:"gender,omitempty"  validate:"omitempty,oneof=male female other"`
	Notes            string              `json:"notes,omitempty"   validate:"max=500"`
	PaymentMethod    model.PaymentMethod `json:"payment_method"    validate:"omitempty,oneof=none cash mobile_money"`
	PaymentAmount    Amount              `json:"payment_amount"    swaggertype:"string"`
	PaymentPhone     string              `json:"payment_phone"     validate:"omitempty,max=30,phone"`
	PaymentReference string              `json:"payment_reference" validate:"max=100"`
	PaymentNotes     string              `json:"payment_notes"     validate:"max=500"`
	AutoSendMobile   bool                `json:"auto_send_mobile"`
}

// Method returns the chosen payment method, none when left blank.
func (r CreateBookingRequest) Method() model.PaymentMethod {
	if r.PaymentMethod == "" {
		return model.PaymentMethodNone
	}

	return r.PaymentMethod
}

// MobilePhone is the payment phone, falling back to the student's phone.
func (r CreateBookingRequest) MobilePhone() string {
	if phone := strings.TrimSpace(r.PaymentPhone); phone != "" {
		return phone
	}

	return strings.TrimSpace(r.Phone)
}

// Check applies the form rules in the order the desk reports them. It never
// touches the network.
func (r CreateBookingRequest) Check() error {
	if r.SemesterID <= 0 || r.RoomID <= 0 {
		return failure.BadRequestFromString(MessageSelectSemesterAndRoom)
	}

	if strings.TrimSpace(r.FullName) == "" || strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.Phone) == "" {
		return failure.BadRequestFromString(MessageContactRequired)
	}

	method := r.Method()
	if method == model.PaymentMethodNone {
		return nil
	}

	if _, ok := r.PaymentAmount.Positive(); !ok {
		return failure.BadRequestFromString(MessageInitialAmountInvalid)
	}

	if method == model.PaymentMethodMobileMoney && r.MobilePhone() == "" {
		return failure.BadRequestFromString(MessageMobilePhoneRequired)
	}

	return nil
}

// CreateBookingPayload is the body of the booking create endpoint. Payment
// fields stay nil, and so absent from the JSON, when no payment is taken.
type CreateBookingPayload struct {
	HostelID         int64                `json:"hostel_id"`
	SemesterID       int64                `json:"semester_id"`
	RoomID           int64                `json:"room_id"`
	StudentName      string               `json:"student_name"`
	StudentEmail     string               `json:"student_email"`
	StudentPhone     string               `json:"student_phone"`
	Gender           *string              `json:"gender,omitempty"`
	Notes            *string              `json:"notes,omitempty"`
	PaymentMethod    *model.PaymentMethod `json:"payment_method,omitempty"`
	PaymentAmount    *decimal.Decimal     `json:"payment_amount,omitempty"`
	PaymentPhone     *string              `json:"payment_phone,omitempty"`
	PaymentReference *string              `json:"payment_reference,omitempty"`
	PaymentNotes     *string              `json:"payment_notes,omitempty"`
}

// ToPayload builds the create body for hostelID. Call Check first.
func (r CreateBookingRequest) ToPayload(hostelID int64) CreateBookingPayload {
	payload := CreateBookingPayload{
		HostelID:     hostelID,
		SemesterID:   r.SemesterID,
		RoomID:       r.RoomID,
		StudentName:  strings.TrimSpace(r.FullName),
		StudentEmail: strings.TrimSpace(r.Email),
		StudentPhone: strings.TrimSpace(r.Phone),
		Gender:       shared.OptionalString(r.Gender),
		Notes:        shared.OptionalString(r.Notes),
	}

	method := r.Method()
	if method == model.PaymentMethodNone {
		return payload
	}

	amount, _ := r.PaymentAmount.Positive()
	payload.PaymentMethod = &method
	payload.PaymentAmount = &amount
	payload.PaymentReference = shared.OptionalString(r.PaymentReference)
	payload.PaymentNotes = shared.OptionalString(r.PaymentNotes)

	if method == model.PaymentMethodMobileMoney {
		phone := r.MobilePhone()
		payload.PaymentPhone = &phone
	}

	return payload
}

// CreateBookingResult is the data of a successful create.
type CreateBookingResult struct {
	Booking     model.Booking   `json:"booking"`
	Payment     *model.Payment  `json:"payment,omitempty"`
	MobileMoney *MobileMoneyTag `json:"mobile_money,omitempty"`
}

type MobileMoneyTag struct {
	RequiresInitiation bool   `json:"requires_initiation"`
	Phone              string `json:"phone,omitempty"`
}

// RequiresInitiation reports whether the initial mobile money payment still has to be pushed to the phone.
func (r CreateBookingResult) RequiresInitiation() bool {
	return r.MobileMoney != nil && r.MobileMoney.RequiresInitiation
}

// Projection holds the values the booking form displays while it is filled in.
type Projection struct {
	RoomPrice            decimal.Decimal `json:"room_price"`
	InitialPayment       decimal.Decimal `json:"initial_payment"`
	ProjectedOutstanding decimal.Decimal `json:"projected_outstanding"`
	Currency             string          `json:"currency,omitempty"`
}

// Project derives the form display values from the draft and the rooms loaded for its semester.
func Project(draft CreateBookingRequest, rooms []model.Room) Projection {
	projection := Projection{
		RoomPrice:            decimal.Zero,
		InitialPayment:       decimal.Zero,
		ProjectedOutstanding: decimal.Zero,
	}

	if room, ok := model.FindRoom(rooms, draft.RoomID); ok {
		projection.RoomPrice = room.Price
		projection.Currency = room.Currency
	}

	if draft.Method() != model.PaymentMethodNone {
		if amount, ok := draft.PaymentAmount.Positive(); ok {
			projection.InitialPayment = amount
		}
	}

	outstanding := projection.RoomPrice.Sub(projection.InitialPayment)
	if outstanding.IsPositive() {
		projection.ProjectedOutstanding = outstanding
	}

	return projection
}

// RecordPaymentRequest is a manual receipt against a booking.
type RecordPaymentRequest struct {
	Amount    Amount              `json:"amount"    swaggertype:"string"`
	Method    model.PaymentMethod `json:"method"    validate:"omitempty,oneof=cash mobile_money"`
	Reference string              `json:"reference" validate:"max=100"`
	Notes     string              `json:"notes"     validate:"max=500"`
}

type RecordPaymentPayload struct {
	Amount    decimal.Decimal     `json:"amount"`
	Method    model.PaymentMethod `json:"method"`
	Reference *string             `json:"reference,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
}

// ToPayload validates the amount and builds the body, cash when no method is given.
func (r RecordPaymentRequest) ToPayload() (RecordPaymentPayload, error) {
	amount, ok := r.Amount.Positive()
	if !ok {
		return RecordPaymentPayload{}, failure.BadRequestFromString(MessagePaymentAmountInvalid)
	}

	method := r.Method
	if method == "" || method == model.PaymentMethodNone {
		method = model.PaymentMethodCash
	}

	return RecordPaymentPayload{
		Amount:    amount,
		Method:    method,
		Reference: shared.OptionalString(r.Reference),
		Notes:     shared.OptionalString(r.Notes),
	}, nil
}

// MobilePaymentRequest asks the gateway to push a payment prompt to a phone.
type MobilePaymentRequest struct {
	Amount Amount `json:"amount" swaggertype:"string"`
	Phone  string `json:"phone"  validate:"omitempty,max=30,phone"`
	Notes  string `json:"notes"  validate:"max=500"`
}

type MobilePaymentPayload struct {
	Amount decimal.Decimal `json:"amount"`
	Phone  string          `json:"phone"`
	Notes  *string         `json:"notes,omitempty"`
}

// ToPayload validates the request. fallbackPhone is the booking's phone.
func (r MobilePaymentRequest) ToPayload(fallbackPhone string) (MobilePaymentPayload, error) {
	amount, ok := r.Amount.Positive()
	if !ok {
		return MobilePaymentPayload{}, failure.BadRequestFromString(MessagePaymentAmountInvalid)
	}

	phone := strings.TrimSpace(r.Phone)
	if phone == "" {
		phone = strings.TrimSpace(fallbackPhone)
	}

	if phone == "" {
		return MobilePaymentPayload{}, failure.BadRequestFromString(MessageMobilePhoneRequired)
	}

	return MobilePaymentPayload{
		Amount: amount,
		Phone:  phone,
		Notes:  shared.OptionalString(r.Notes),
	}, nil
}

// PaymentResult is what the payment endpoints return. Booking and Payment are
// present when the backend sends them back.
type PaymentResult struct {
	Booking *model.Booking `json:"booking,omitempty"`
	Payment *model.Payment `json:"payment,omitempty"`
	Message string         `json:"message,omitempty"`
}

type VerifyRequest struct {
	Code string `json:"code" validate:"max=32"`
}

// NormalizeCode trims and upper-cases a verification code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type VerifyLookup struct {
	BookingID int64 `json:"booking_id"`
}

type LegacyCheckInPayload struct {
	BookingID int64 `json:"booking_id"`
	HostelID  int64 `json:"hostel_id"`
}
