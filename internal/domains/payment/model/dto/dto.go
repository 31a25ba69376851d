package dto

import "encoding/json"

// CreateIntentRequest is the wire contract with the booking UI. The amount is
// in major currency units and kept as a json.Number so the decimal is converted
// exactly, without a float round trip.
type CreateIntentRequest struct {
	Amount        json.Number `json:"amount"        validate:"required"`
	ReservationID json.Number `json:"reservationId" validate:"required"`
	CustomerEmail string      `json:"customerEmail" validate:"notblank,simpleemail"`
	CustomerName  string      `json:"customerName"  validate:"notblank"`
}

type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Mode            string `json:"mode,omitempty"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}
