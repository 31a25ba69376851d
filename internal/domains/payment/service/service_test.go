package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"croisiere/config"
	kafkaMocks "croisiere/infras/kafka/mocks"
	"croisiere/infras/otel/mocks"
	"croisiere/infras/payment"
	paymentMocks "croisiere/infras/payment/mocks"
	"croisiere/internal/domains/payment/model/dto"
	"croisiere/internal/domains/payment/service"
	reservationMocks "croisiere/internal/domains/reservation/mocks"
	"croisiere/internal/domains/reservation/model"
	cacheMocks "croisiere/shared/cache/mocks"
	"croisiere/shared/constant"
)

func TestPaymentService_CreateIntent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProcessor := paymentMocks.NewMockClient(ctrl)
	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockAlerts := kafkaMocks.NewMockClient(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Payment.Currency = "eur"

	svc := service.New(mockProcessor, mockRepo, mockAlerts, cfg, mockCache, mockOtel)

	validReq := dto.CreateIntentRequest{
		Amount:        json.Number("49.995"),
		ReservationID: json.Number("42"),
		CustomerEmail: "marie.dubois@example.fr",
		CustomerName:  "Marie Dubois",
	}

	tests := []struct {
		name      string
		req       dto.CreateIntentRequest
		setupMock func()
		wantMode  string
		wantErr   bool
	}{
		{
			name: "amount is converted to minor units before reaching the processor",
			req:  validReq,
			setupMock: func() {
				mockProcessor.EXPECT().
					CreateIntent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req payment.CreateIntentRequest) (payment.Intent, error) {
						assert.Equal(t, int64(5000), req.AmountMinor)
						assert.Equal(t, "eur", req.Currency)
						assert.Equal(t, "42", req.ReservationID)
						assert.NotEmpty(t, req.IdempotencyKey)

						return payment.Intent{
							ID:           "pi_123",
							ClientSecret: "pi_123_secret_abc",
						}, nil
					})
			},
		},
		{
			name: "simulated intent reports development mode",
			req:  validReq,
			setupMock: func() {
				mockProcessor.EXPECT().
					CreateIntent(gomock.Any(), gomock.Any()).
					Return(payment.Intent{
						ID:           "pi_sim_123",
						ClientSecret: "pi_sim_123_secret_abc",
						Simulated:    true,
					}, nil)
			},
			wantMode: constant.PaymentModeDevelopment,
		},
		{
			name: "processor failure surfaces a generic message",
			req:  validReq,
			setupMock: func() {
				mockProcessor.EXPECT().
					CreateIntent(gomock.Any(), gomock.Any()).
					Return(payment.Intent{}, errors.New("card_declined: insufficient funds"))
			},
			wantErr: true,
		},
		{
			name: "invalid amount never reaches the processor",
			req: dto.CreateIntentRequest{
				Amount:        json.Number("-5"),
				ReservationID: json.Number("42"),
				CustomerEmail: "marie.dubois@example.fr",
				CustomerName:  "Marie Dubois",
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "missing customer email never reaches the processor",
			req: dto.CreateIntentRequest{
				Amount:        json.Number("49.99"),
				ReservationID: json.Number("42"),
				CustomerName:  "Marie Dubois",
			},
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.CreateIntent(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.NotContains(t, err.Error(), "card_declined")

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ClientSecret)
			assert.NotEmpty(t, res.PaymentIntentID)
			assert.Equal(t, tt.wantMode, res.Mode)
		})
	}
}

func TestPaymentService_CreateIntent_SameBookingSameKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProcessor := paymentMocks.NewMockClient(ctrl)
	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockAlerts := kafkaMocks.NewMockClient(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockProcessor, mockRepo, mockAlerts, cfg, mockCache, mockOtel)

	req := dto.CreateIntentRequest{
		Amount:        json.Number("120.00"),
		ReservationID: json.Number("7"),
		CustomerEmail: "jean@example.fr",
		CustomerName:  "Jean Martin",
	}

	var keys []string

	mockProcessor.EXPECT().
		CreateIntent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r payment.CreateIntentRequest) (payment.Intent, error) {
			keys = append(keys, r.IdempotencyKey)

			return payment.Intent{ID: "pi_1", ClientSecret: "s"}, nil
		}).
		Times(2)

	_, err := svc.CreateIntent(context.Background(), req)
	assert.NoError(t, err)

	_, err = svc.CreateIntent(context.Background(), req)
	assert.NoError(t, err)

	assert.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1])
}

func TestPaymentService_HandleEvent(t *testing.T) {
	succeededEvent := payment.Event{
		ID:        "evt_1",
		Type:      payment.EventTypePaymentSucceeded,
		PaymentID: "pi_123",
		Metadata:  map[string]string{payment.MetadataKeyReservationID: "42"},
	}

	tests := []struct {
		name         string
		setupMock    func(p *paymentMocks.MockClient, r *reservationMocks.MockReservation, a *kafkaMocks.MockClient, c *cacheMocks.MockRedisCache)
		wantReceived bool
		wantErr      bool
	}{
		{
			name: "confirmed payment marks the reservation",
			setupMock: func(p *paymentMocks.MockClient, r *reservationMocks.MockReservation, _ *kafkaMocks.MockClient, c *cacheMocks.MockRedisCache) {
				p.EXPECT().
					VerifyEvent(gomock.Any(), gomock.Any()).
					Return(succeededEvent, nil)

				r.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				r.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, true, fields[model.FieldPaymentConfirmed])
						assert.Equal(t, constant.ReservationStatusConfirmed, fields[model.FieldStatus])
						assert.Equal(t, "pi_123", fields[model.FieldProcessorPaymentID])

						return nil
					})

				c.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				c.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantReceived: true,
		},
		{
			name: "invalid signature never touches the store",
			setupMock: func(p *paymentMocks.MockClient, _ *reservationMocks.MockReservation, _ *kafkaMocks.MockClient, _ *cacheMocks.MockRedisCache) {
				p.EXPECT().
					VerifyEvent(gomock.Any(), gomock.Any()).
					Return(payment.Event{}, payment.ErrInvalidSignature)
			},
			wantErr: true,
		},
		{
			name: "unrelated event type is acknowledged without store access",
			setupMock: func(p *paymentMocks.MockClient, _ *reservationMocks.MockReservation, _ *kafkaMocks.MockClient, _ *cacheMocks.MockRedisCache) {
				p.EXPECT().
					VerifyEvent(gomock.Any(), gomock.Any()).
					Return(payment.Event{
						ID:   "evt_2",
						Type: "payment_intent.created",
					}, nil)
			},
			wantReceived: true,
		},
		{
			name: "event without reservation metadata is acknowledged without store access",
			setupMock: func(p *paymentMocks.MockClient, _ *reservationMocks.MockReservation, _ *kafkaMocks.MockClient, _ *cacheMocks.MockRedisCache) {
				p.EXPECT().
					VerifyEvent(gomock.Any(), gomock.Any()).
					Return(payment.Event{
						ID:        "evt_3",
						Type:      payment.EventTypePaymentSucceeded,
						PaymentID: "pi_999",
					}, nil)
			},
			wantReceived: true,
		},
		{
			name: "missing reservation row alerts the operators and still acknowledges",
			setupMock: func(p *paymentMocks.MockClient, r *reservationMocks.MockReservation, a *kafkaMocks.MockClient, _ *cacheMocks.MockRedisCache) {
				p.EXPECT().
					VerifyEvent(gomock.Any(), gomock.Any()).
					Return(succeededEvent, nil)

				r.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				a.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantReceived: true,
		},
		{
			name: "store failure alerts the operators and still acknowledges",
			setupMock: func(p *paymentMocks.MockClient, r *reservationMocks.MockReservation, a *kafkaMocks.MockClient, _ *cacheMocks.MockRedisCache) {
				p.EXPECT().
					VerifyEvent(gomock.Any(), gomock.Any()).
					Return(succeededEvent, nil)

				r.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				r.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("connection reset"))

				a.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantReceived: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockProcessor := paymentMocks.NewMockClient(ctrl)
			mockRepo := reservationMocks.NewMockReservation(ctrl)
			mockAlerts := kafkaMocks.NewMockClient(ctrl)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			mockOtel := mocks.NewOtel()

			cfg := &config.Config{}
			cfg.Kafka.AlertTopic = "payment-alerts"

			svc := service.New(mockProcessor, mockRepo, mockAlerts, cfg, mockCache, mockOtel)

			tt.setupMock(mockProcessor, mockRepo, mockAlerts, mockCache)

			ack, err := svc.HandleEvent(context.Background(), []byte(`{}`), "t=1,v1=abc")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, ack.Received)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantReceived, ack.Received)
		})
	}
}

// Delivering the same confirmation twice must leave the reservation in the same
// state and acknowledge both deliveries.
func TestPaymentService_HandleEvent_DuplicateDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProcessor := paymentMocks.NewMockClient(ctrl)
	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockAlerts := kafkaMocks.NewMockClient(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockProcessor, mockRepo, mockAlerts, cfg, mockCache, mockOtel)

	event := payment.Event{
		ID:        "evt_dup",
		Type:      payment.EventTypePaymentSucceeded,
		PaymentID: "pi_dup",
		Metadata:  map[string]string{payment.MetadataKeyReservationID: "42"},
	}

	mockProcessor.EXPECT().
		VerifyEvent(gomock.Any(), gomock.Any()).
		Return(event, nil).
		Times(2)

	mockRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil).
		Times(2)

	var applied []map[string]any

	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			applied = append(applied, fields)

			return nil
		}).
		Times(2)

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	for range 2 {
		ack, err := svc.HandleEvent(context.Background(), []byte(`{}`), "t=1,v1=abc")
		assert.NoError(t, err)
		assert.True(t, ack.Received)
	}

	time.Sleep(10 * time.Millisecond)

	assert.Len(t, applied, 2)
	assert.Equal(t, applied[0][model.FieldStatus], applied[1][model.FieldStatus])
	assert.Equal(t, applied[0][model.FieldPaymentConfirmed], applied[1][model.FieldPaymentConfirmed])
	assert.Equal(t, applied[0][model.FieldProcessorPaymentID], applied[1][model.FieldProcessorPaymentID])
}
