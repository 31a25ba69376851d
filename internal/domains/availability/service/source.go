package service

import (
	"context"

	"croisiere/internal/domains/availability/model/dto"
	"croisiere/shared/constant"
	"croisiere/shared/timezone"
)

// Source is the pluggable inventory lookup keyed by (date, cabin type, plan).
type Source interface {
	Lookup(ctx context.Context, query dto.AvailabilityQuery) (bool, error)
}

// calendarSource is the stand-in rule used until a real inventory source is
// integrated: the 1st and the 15th of any month are unavailable for every cabin
// type and plan. Business logic must not grow here, swap the Source instead.
type calendarSource struct{}

func NewCalendarSource() Source {
	return &calendarSource{}
}

func (s *calendarSource) Lookup(_ context.Context, query dto.AvailabilityQuery) (bool, error) {
	day, err := timezone.Parse(constant.DayDateFormat, query.Date)
	if err != nil {
		return false, err
	}

	dayOfMonth := day.Day()

	return dayOfMonth != 1 && dayOfMonth != 15, nil
}
