package dto

import (
	"github.com/google/uuid"

	"croisiere/internal/domains/reservation/model"
	"croisiere/shared"
	"croisiere/shared/constant"
	gDto "croisiere/shared/dto"
	gModel "croisiere/shared/model"
	"croisiere/shared/timezone"
)

// ReservationDraft is the client-held booking form. It is validated once on
// submission and either rejected field-by-field or turned into a persisted
// reservation.
type ReservationDraft struct {
	CabinType string `json:"cabin_type" validate:"notblank"`
	Plan      string `json:"plan"       validate:"notblank"`
	Date      string `json:"date"       validate:"notblank,dayfuture"`
	Adults    int    `json:"adults"     validate:"gte=1"`
	Children  int    `json:"children"   validate:"gte=0"`
	Name      string `json:"name"       validate:"notblank,trimmin=2"`
	Email     string `json:"email"      validate:"notblank,simpleemail"`
	Phone     string `json:"phone"      validate:"notblank,frphone"`
}

func (d *ReservationDraft) ToModel() (model.Reservation, error) {
	sailDate, err := timezone.Parse(constant.DayDateFormat, d.Date)
	if err != nil {
		return model.Reservation{}, err
	}

	return model.Reservation{
		ID:            uuid.NewString(),
		CabinType:     d.CabinType,
		Plan:          d.Plan,
		SailDate:      sailDate,
		Adults:        d.Adults,
		Children:      d.Children,
		CustomerName:  d.Name,
		CustomerEmail: d.Email,
		CustomerPhone: d.Phone,
		Status:        constant.ReservationStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  d.Email,
			ModifiedBy: d.Email,
		},
	}, nil
}

// ValidationResult reports every violated field at once. Validity is
// communicated only through this value, never through an error.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

type CreateReservationResponse struct {
	ID string `json:"id"`
}

type ReservationResponse struct {
	ID                 string `json:"id"`
	CabinType          string `json:"cabin_type"`
	Plan               string `json:"plan"`
	Date               string `json:"date"`
	Adults             int    `json:"adults"`
	Children           int    `json:"children"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Status             string `json:"status"`
	PaymentConfirmed   bool   `json:"payment_confirmed"`
	ProcessorPaymentID string `json:"processor_payment_id,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.CabinType = model.CabinType
	r.Plan = model.Plan
	r.Date = model.SailDate.Format(constant.DayDateFormat)
	r.Adults = model.Adults
	r.Children = model.Children
	r.Name = model.CustomerName
	r.Email = model.CustomerEmail
	r.Phone = model.CustomerPhone
	r.Status = model.Status
	r.PaymentConfirmed = model.PaymentConfirmed
	r.ProcessorPaymentID = model.ProcessorPaymentID
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
