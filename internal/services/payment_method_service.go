package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradementor/internal/gateway"
	"tradementor/internal/models/db_models"
	"tradementor/internal/models/response_models"
	"tradementor/internal/repositories"
	"tradementor/pkg/utils"
)

type PaymentMethodService interface {
	// Register exchanges the gateway auth result for a billing key and
	// stores it as a payment method.
	Register(ctx context.Context, customerID uuid.UUID, txTID, authToken string, makePrimary bool) (*response_models.PaymentMethodResponse, error)

	Delete(ctx context.Context, customerID, methodID uuid.UUID) error
	SetPrimary(ctx context.Context, customerID, methodID uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID) ([]response_models.PaymentMethodResponse, error)
}

type paymentMethodService struct {
	methodRepo repositories.IPaymentMethodRepository
	gw         gateway.Client
	logger     *zap.Logger
}

func NewPaymentMethodService(
	methodRepo repositories.IPaymentMethodRepository,
	gw gateway.Client,
	logger *zap.Logger,
) PaymentMethodService {
	return &paymentMethodService{methodRepo: methodRepo, gw: gw, logger: logger}
}

func (s *paymentMethodService) Register(ctx context.Context, customerID uuid.UUID, txTID, authToken string, makePrimary bool) (*response_models.PaymentMethodResponse, error) {
	result, err := s.gw.RegisterBillingKey(ctx, gateway.BillingKeyRequest{
		TxTID:     txTID,
		AuthToken: authToken,
		OrderID:   gateway.GenerateBillingKeyOrderID(),
	})
	if err != nil {
		return nil, err
	}

	existing, err := s.methodRepo.FindPrimaryByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	method := &db_models.PaymentMethod{
		CustomerID:   customerID,
		BillingKey:   result.BillingKey,
		CardName:     result.CardName,
		CardNoMasked: result.CardNoMasked,
		IsActive:     true,
		// The first registered method is always the primary one.
		IsPrimary: existing == nil,
	}
	if err := s.methodRepo.Create(ctx, method); err != nil {
		return nil, err
	}

	if makePrimary && !method.IsPrimary {
		if err := s.methodRepo.MakePrimary(ctx, customerID, method.ID); err != nil {
			return nil, err
		}
		method.IsPrimary = true
	}

	s.logger.Info("billing key registered",
		zap.String("customer_id", customerID.String()),
		zap.String("payment_method_id", method.ID.String()))

	return toPaymentMethodResponse(method), nil
}

func (s *paymentMethodService) Delete(ctx context.Context, customerID, methodID uuid.UUID) error {
	method, err := s.methodRepo.FindByID(ctx, methodID)
	if err != nil {
		return err
	}
	if method.CustomerID != customerID {
		return utils.ErrForbidden
	}
	if method.IsDeleted {
		return utils.ErrNotFound
	}

	if err := s.gw.DeleteBillingKey(ctx, method.BillingKey, gateway.GenerateBillingKeyOrderID()); err != nil {
		// The key may already be revoked on the gateway side; the local
		// record is still retired.
		s.logger.Warn("billing key revoke failed",
			zap.String("payment_method_id", methodID.String()),
			zap.Error(err))
	}

	method.IsDeleted = true
	method.IsPrimary = false
	return s.methodRepo.Save(ctx, method)
}

func (s *paymentMethodService) SetPrimary(ctx context.Context, customerID, methodID uuid.UUID) error {
	return s.methodRepo.MakePrimary(ctx, customerID, methodID)
}

func (s *paymentMethodService) List(ctx context.Context, customerID uuid.UUID) ([]response_models.PaymentMethodResponse, error) {
	methods, err := s.methodRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	result := make([]response_models.PaymentMethodResponse, 0, len(methods))
	for i := range methods {
		result = append(result, *toPaymentMethodResponse(&methods[i]))
	}
	return result, nil
}

func toPaymentMethodResponse(method *db_models.PaymentMethod) *response_models.PaymentMethodResponse {
	return &response_models.PaymentMethodResponse{
		ID:           method.ID.String(),
		CardName:     method.CardName,
		CardNoMasked: method.CardNoMasked,
		IsPrimary:    method.IsPrimary,
	}
}
