package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

// Service defines operations that record and read stock movements.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, input RecordMovementInput) (*models.StockMovement, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.StockMovement, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error)
}

type service struct {
	repo Repository
}

// RecordMovementInput captures the immutable data a stock movement requires.
// Qty is signed: negative values represent stock leaving the warehouse or
// being locked away from availability.
type RecordMovementInput struct {
	ProductID uuid.UUID
	OrderID   *uuid.UUID
	Type      enums.StockMovementType
	Qty       int
	Reason    string
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, input RecordMovementInput) (*models.StockMovement, error) {
	if input.ProductID == uuid.Nil {
		return nil, fmt.Errorf("product id is required")
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid stock movement type %q", input.Type)
	}
	if input.Qty == 0 {
		return nil, fmt.Errorf("movement qty cannot be zero")
	}

	movement := &models.StockMovement{
		ProductID: input.ProductID,
		OrderID:   input.OrderID,
		Type:      input.Type,
		Qty:       input.Qty,
		Reason:    input.Reason,
	}

	if err := s.repo.WithTx(tx).Create(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.StockMovement, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("order id is required")
	}
	return s.repo.ListByOrderID(ctx, orderID)
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("product id is required")
	}
	return s.repo.ListByProductID(ctx, productID)
}
