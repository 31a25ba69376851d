package dto

type AvailabilityQuery struct {
	Date      string `json:"date"       validate:"notblank"`
	CabinType string `json:"cabin_type" validate:"notblank"`
	Plan      string `json:"plan"       validate:"notblank"`
}

// AvailabilityAnswer carries the lookup outcome. A failed lookup is surfaced as
// an error, never folded into Available=false.
type AvailabilityAnswer struct {
	Available bool `json:"available"`
}
