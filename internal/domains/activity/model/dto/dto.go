package dto

import (
	"hostel/internal/domains/activity/model"
	"hostel/shared"
	gDto "hostel/shared/dto"

	"github.com/shopspring/decimal"
)

type ActivityResponse struct {
	ID        string           `json:"id"`
	HostelID  int64            `json:"hostel_id"`
	BookingID int64            `json:"booking_id"`
	Action    model.Action     `json:"action"`
	Amount    *decimal.Decimal `json:"amount,omitempty" swaggertype:"number"`
	Method    string           `json:"method,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
	gDto.Metadata
}

func (r *ActivityResponse) FromModel(mod model.Entry) {
	r.ID = mod.ID
	r.HostelID = mod.HostelID
	r.BookingID = mod.BookingID
	r.Action = mod.Action
	r.Method = mod.Method
	r.RequestID = mod.RequestID

	if mod.Amount.Valid {
		amount := mod.Amount.Decimal
		r.Amount = &amount
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetActivitiesResponse) FromModels(models []model.Entry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Activities = make([]ActivityResponse, len(models))
	for i, mod := range models {
		r.Activities[i].FromModel(mod)
	}
}
