package model

import (
	"time"

	"croisiere/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID                 = "id"
	FieldCabinType          = "cabin_type"
	FieldPlan               = "plan"
	FieldSailDate           = "sail_date"
	FieldAdults             = "adults"
	FieldChildren           = "children"
	FieldCustomerName       = "customer_name"
	FieldCustomerEmail      = "customer_email"
	FieldCustomerPhone      = "customer_phone"
	FieldStatus             = "status"
	FieldPaymentConfirmed   = "payment_confirmed"
	FieldProcessorPaymentID = "processor_payment_id"
)

type Reservation struct {
	ID                 string    `db:"id"`
	CabinType          string    `db:"cabin_type"`
	Plan               string    `db:"plan"`
	SailDate           time.Time `db:"sail_date"`
	Adults             int       `db:"adults"`
	Children           int       `db:"children"`
	CustomerName       string    `db:"customer_name"`
	CustomerEmail      string    `db:"customer_email"`
	CustomerPhone      string    `db:"customer_phone"`
	Status             string    `db:"status"`
	PaymentConfirmed   bool      `db:"payment_confirmed"`
	ProcessorPaymentID string    `db:"processor_payment_id"`
	model.Metadata
}
