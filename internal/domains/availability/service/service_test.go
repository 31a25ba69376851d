package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"croisiere/config"
	"croisiere/infras/otel/mocks"
	"croisiere/internal/domains/availability/model/dto"
	"croisiere/internal/domains/availability/service"
	cacheMocks "croisiere/shared/cache/mocks"
	"croisiere/shared/timezone"
)

// futureDate returns next year's date on the given day, always valid for a
// booking and with a predictable day of month.
func futureDate(day int) string {
	return fmt.Sprintf("%d-06-%02d", timezone.Now().Year()+1, day)
}

type fakeSource struct {
	lookup func(ctx context.Context, query dto.AvailabilityQuery) (bool, error)
}

func (f *fakeSource) Lookup(ctx context.Context, query dto.AvailabilityQuery) (bool, error) {
	return f.lookup(ctx, query)
}

func newService(t *testing.T, source service.Source) service.Availability {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(source, cfg, mockCache, mocks.NewOtel())
}

func TestAvailabilityService_Check(t *testing.T) {
	tests := []struct {
		name          string
		query         dto.AvailabilityQuery
		wantAvailable bool
		wantErr       bool
	}{
		{
			name: "first of the month is unavailable",
			query: dto.AvailabilityQuery{
				Date:      futureDate(1),
				CabinType: "balcony",
				Plan:      "all-inclusive",
			},
			wantAvailable: false,
		},
		{
			name: "fifteenth of the month is unavailable",
			query: dto.AvailabilityQuery{
				Date:      futureDate(15),
				CabinType: "interior",
				Plan:      "half-board",
			},
			wantAvailable: false,
		},
		{
			name: "any other day is available",
			query: dto.AvailabilityQuery{
				Date:      futureDate(10),
				CabinType: "suite",
				Plan:      "all-inclusive",
			},
			wantAvailable: true,
		},
		{
			name: "past date is rejected",
			query: dto.AvailabilityQuery{
				Date:      "2020-06-10",
				CabinType: "suite",
				Plan:      "all-inclusive",
			},
			wantErr: true,
		},
		{
			name: "blank cabin type is rejected",
			query: dto.AvailabilityQuery{
				Date: futureDate(10),
				Plan: "all-inclusive",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, service.NewCalendarSource())

			answer, err := svc.Check(context.Background(), tt.query)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, answer.Available)
		})
	}
}

// A broken lookup must surface as an error, never as "not available": the two
// outcomes mean different things to the caller.
func TestAvailabilityService_Check_LookupFailure(t *testing.T) {
	source := &fakeSource{
		lookup: func(_ context.Context, _ dto.AvailabilityQuery) (bool, error) {
			return false, errors.New("inventory unreachable")
		},
	}

	svc := newService(t, source)

	_, err := svc.Check(context.Background(), dto.AvailabilityQuery{
		Date:      futureDate(10),
		CabinType: "balcony",
		Plan:      "half-board",
	})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrSuperseded)
}

// Issuing a second query while the first is still in flight cancels the first;
// the slow early answer is dropped and only the latest one is delivered.
func TestAvailabilityService_Check_LastQueryWins(t *testing.T) {
	entered := make(chan struct{})

	source := &fakeSource{
		lookup: func(ctx context.Context, query dto.AvailabilityQuery) (bool, error) {
			if query.CabinType == "slow" {
				close(entered)
				<-ctx.Done()

				return false, ctx.Err()
			}

			return true, nil
		},
	}

	svc := newService(t, source)

	var observed []dto.AvailabilityQuery

	var mu sync.Mutex

	svc.Watch(func(query dto.AvailabilityQuery, _ dto.AvailabilityAnswer) {
		mu.Lock()
		defer mu.Unlock()

		observed = append(observed, query)
	})

	firstErr := make(chan error, 1)

	go func() {
		_, err := svc.Check(context.Background(), dto.AvailabilityQuery{
			Date:      futureDate(10),
			CabinType: "slow",
			Plan:      "half-board",
		})
		firstErr <- err
	}()

	<-entered

	answer, err := svc.Check(context.Background(), dto.AvailabilityQuery{
		Date:      futureDate(12),
		CabinType: "fast",
		Plan:      "half-board",
	})

	assert.NoError(t, err)
	assert.True(t, answer.Available)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, service.ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("superseded query never returned")
	}

	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	assert.Len(t, observed, 1)
	assert.Equal(t, "fast", observed[0].CabinType)
}
