package http

import (
	"github.com/jhoicas/Salon-api/internal/application/checkout"
	"github.com/jhoicas/Salon-api/internal/application/dto"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		AppointmentID: s.AppointmentID,
		Status:        s.Status,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
		Payments:      make([]dto.SalePaymentResponse, 0, len(s.Payments)),
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		PaidAt:        s.PaidAt,
		RefundedAt:    s.RefundedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:         it.ID,
			ItemType:   it.ItemType,
			ProductID:  it.ProductID,
			ServiceID:  it.ServiceID,
			Name:       it.Name,
			Qty:        it.Qty,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, dto.SalePaymentResponse{
			ID:        p.ID,
			Method:    p.Method,
			Amount:    p.Amount,
			CashGiven: p.CashGiven,
			Change:    p.Change,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}

func toSummaryResponse(s checkout.Summary) dto.PaymentSummaryResponse {
	out := dto.PaymentSummaryResponse{
		Total:           s.Total,
		EntriesTotal:    s.EntriesTotal,
		Remaining:       s.Remaining,
		IsFullyCovered:  s.IsFullyCovered,
		UsedCredit:      s.UsedCredit,
		AvailableCredit: s.AvailableCredit,
		TotalChange:     s.TotalChange,
		Entries:         make([]dto.TenderEntryResponse, 0, len(s.Entries)),
	}
	for _, e := range s.Entries {
		out.Entries = append(out.Entries, dto.TenderEntryResponse{
			ID:        e.ID,
			Method:    e.Method,
			Amount:    e.Amount,
			CashGiven: e.CashGiven,
			Change:    e.Change(),
		})
	}
	return out
}

func toTenderInputs(in []dto.TenderRequest) []checkout.TenderInput {
	out := make([]checkout.TenderInput, 0, len(in))
	for _, t := range in {
		out = append(out, checkout.TenderInput{ID: t.ID, Method: t.Method, Amount: t.Amount, CashGiven: t.CashGiven})
	}
	return out
}

func toItemInput(in dto.SaleItemRequest) checkout.ItemInput {
	return checkout.ItemInput{
		ItemType:  in.ItemType,
		ProductID: in.ProductID,
		ServiceID: in.ServiceID,
		Name:      in.Name,
		Qty:       in.Qty,
		UnitPrice: in.UnitPrice,
	}
}

func toStockMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

func toCreditMovementResponse(m *entity.CreditMovement) dto.CreditMovementResponse {
	return dto.CreditMovementResponse{
		ID:          m.ID,
		ClientID:    m.ClientID,
		Type:        m.Type,
		Amount:      m.Amount,
		Origin:      m.Origin,
		Note:        m.Note,
		ReferenceID: m.ReferenceID,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
