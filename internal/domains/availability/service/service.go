package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"croisiere/config"
	"croisiere/infras/otel"
	"croisiere/internal/domains/availability/model/dto"
	"croisiere/shared"
	"croisiere/shared/cache"
	"croisiere/shared/constant"
	"croisiere/shared/failure"
	"croisiere/shared/validator"
)

const (
	cacheCheckAvailability = "availability:check"
)

// ErrSuperseded marks a query whose answer arrived after a newer query for
// different inputs had already been issued. Its answer must be discarded.
var ErrSuperseded = errors.New("availability query superseded by a newer one")

// Observer receives the answer of the most recently issued query only.
type Observer func(query dto.AvailabilityQuery, answer dto.AvailabilityAnswer)

type Availability interface {
	Check(ctx context.Context, query dto.AvailabilityQuery) (dto.AvailabilityAnswer, error)
	Watch(observer Observer)
}

type serviceImpl struct {
	source Source
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	observer Observer
}

func New(source Source, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		source: source,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

func (s *serviceImpl) Watch(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observer = observer
}

// Check resolves one availability query. Rapid successive calls follow
// last-query-wins: issuing a new query cancels the in-flight one, and a slow
// early answer is dropped instead of overwriting a fast later one.
func (s *serviceImpl) Check(ctx context.Context, query dto.AvailabilityQuery) (res dto.AvailabilityAnswer, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Check")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err := validator.ValidateStruct(&query); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err := validator.ValidateVar(query.Date, "dayfuture"); err != nil {
		return res, failure.BadRequestFromString("date must be today or a future date") //nolint:wrapcheck
	}

	ctx, mySeq := s.begin(ctx)

	cacheKey := shared.BuildCacheKey(cacheCheckAvailability, query.Date, query.CabinType, query.Plan)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability")

		return s.finish(query, res, mySeq)
	}

	available, err := s.source.Lookup(ctx, query)
	if err != nil {
		if s.superseded(mySeq) {
			return dto.AvailabilityAnswer{}, ErrSuperseded
		}

		log.Error().Err(err).Msg("availability lookup failed")

		// An unreachable source blocks the booking, it never defaults to available.
		return dto.AvailabilityAnswer{}, failure.Unavailable("cannot confirm availability") //nolint:wrapcheck
	}

	res = dto.AvailabilityAnswer{Available: available}

	answer, err := s.finish(query, res, mySeq)
	if err != nil {
		return answer, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability to cache")
		}
	}()

	return answer, nil
}

// begin registers a new in-flight query and cancels the previous one.
func (s *serviceImpl) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++

	return ctx, s.seq
}

// finish delivers the answer unless a newer query has been issued meanwhile.
func (s *serviceImpl) finish(query dto.AvailabilityQuery, answer dto.AvailabilityAnswer, mySeq uint64) (dto.AvailabilityAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mySeq != s.seq {
		return dto.AvailabilityAnswer{}, ErrSuperseded
	}

	if s.observer != nil {
		s.observer(query, answer)
	}

	return answer, nil
}

func (s *serviceImpl) superseded(mySeq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return mySeq != s.seq
}
