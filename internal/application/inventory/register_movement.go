package inventory

import (
	"context"

	"github.com/jhoicas/Salon-api/internal/application/dto"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// RecordMovementFromRequest adapta el request HTTP al caso de uso RecordMovement.
func (l *StockLedger) RecordMovementFromRequest(ctx context.Context, userID, productID string, in dto.StockMovementRequest) (*entity.StockMovement, error) {
	input := MovementInput{
		ProductID: productID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Reference: entity.Reference{Type: in.ReferenceType, ID: in.ReferenceID},
		UserID:    userID,
	}
	return l.RecordMovement(ctx, input)
}
