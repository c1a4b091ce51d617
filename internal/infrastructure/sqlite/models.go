package sqlite

import (
	"time"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/money"
)

// Los montos se guardan en centavos (INTEGER): SQLite no tiene decimal exacto.

type stockMovementModel struct {
	Seq           uint   `gorm:"primaryKey;autoIncrement"`
	ID            string `gorm:"size:64;not null;uniqueIndex"`
	ProductID     string `gorm:"size:64;not null;index:idx_stock_product"`
	Type          string `gorm:"size:3;not null"`
	Quantity      int64  `gorm:"not null"`
	Reason        string `gorm:"size:50;not null;default:''"`
	ReferenceType string `gorm:"size:30;not null;default:''"`
	ReferenceID   string `gorm:"size:100;not null;default:''"`
	CreatedBy     string `gorm:"size:64;not null;default:''"`
	CreatedAt     time.Time
}

func (stockMovementModel) TableName() string { return "stock_movements" }

func (m *stockMovementModel) toDomain() *entity.StockMovement {
	return &entity.StockMovement{
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

func stockMovementFromDomain(m *entity.StockMovement) *stockMovementModel {
	return &stockMovementModel{
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

type creditMovementModel struct {
	Seq         uint   `gorm:"primaryKey;autoIncrement"`
	ID          string `gorm:"size:64;not null;uniqueIndex"`
	ClientID    string `gorm:"size:64;not null;index:idx_credit_client"`
	Type        string `gorm:"size:6;not null"`
	AmountCents int64  `gorm:"not null"`
	Origin      string `gorm:"size:30;not null;default:'manual'"`
	Note        string `gorm:"not null;default:''"`
	ReferenceID string `gorm:"size:100;not null;default:''"`
	CreatedBy   string `gorm:"size:64;not null;default:''"`
	CreatedAt   time.Time
}

func (creditMovementModel) TableName() string { return "credit_movements" }

func (m *creditMovementModel) toDomain() *entity.CreditMovement {
	return &entity.CreditMovement{
		ID:          m.ID,
		ClientID:    m.ClientID,
		Type:        m.Type,
		Amount:      money.FromCents(m.AmountCents),
		Origin:      m.Origin,
		Note:        m.Note,
		ReferenceID: m.ReferenceID,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

func creditMovementFromDomain(m *entity.CreditMovement) *creditMovementModel {
	return &creditMovementModel{
		ID:          m.ID,
		ClientID:    m.ClientID,
		Type:        m.Type,
		AmountCents: money.Cents(m.Amount),
		Origin:      m.Origin,
		Note:        m.Note,
		ReferenceID: m.ReferenceID,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

type cashEntryModel struct {
	Seq           uint   `gorm:"primaryKey;autoIncrement"`
	ID            string `gorm:"size:64;not null;uniqueIndex"`
	AccountID     string `gorm:"size:64;not null;index:idx_cash_account"`
	Type          string `gorm:"size:3;not null"`
	Method        string `gorm:"size:20;not null"`
	AmountCents   int64  `gorm:"not null"`
	ReferenceType string `gorm:"size:30;not null;default:''"`
	ReferenceID   string `gorm:"size:100;not null;default:''"`
	Description   string `gorm:"not null;default:''"`
	CreatedAt     time.Time
}

func (cashEntryModel) TableName() string { return "cash_entries" }

func (m *cashEntryModel) toDomain() *entity.CashEntry {
	return &entity.CashEntry{
		ID:            m.ID,
		AccountID:     m.AccountID,
		Type:          m.Type,
		Method:        m.Method,
		Amount:        money.FromCents(m.AmountCents),
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
	}
}

func cashEntryFromDomain(e *entity.CashEntry) *cashEntryModel {
	return &cashEntryModel{
		ID:            e.ID,
		AccountID:     e.AccountID,
		Type:          e.Type,
		Method:        e.Method,
		AmountCents:   money.Cents(e.Amount),
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

type saleModel struct {
	ID            string `gorm:"primaryKey;size:64"`
	CustomerID    string `gorm:"size:64;not null;default:'';index"`
	AppointmentID string `gorm:"size:64;not null;default:''"`
	Status        string `gorm:"size:10;not null"`
	SubtotalCents int64  `gorm:"not null;default:0"`
	DiscountCents int64  `gorm:"not null;default:0"`
	TotalCents    int64  `gorm:"not null;default:0"`
	Notes         string `gorm:"not null;default:''"`
	CreatedBy     string `gorm:"size:64;not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`
	PaidAt        *time.Time
	RefundedAt    *time.Time
}

func (saleModel) TableName() string { return "sales" }

type saleItemModel struct {
	ID              string `gorm:"primaryKey;size:64"`
	SaleID          string `gorm:"size:64;not null;index:idx_sale_items_sale"`
	Position        int    `gorm:"not null"`
	ItemType        string `gorm:"size:10;not null"`
	ProductID       string `gorm:"size:64;not null;default:''"`
	ServiceID       string `gorm:"size:64;not null;default:''"`
	Name            string `gorm:"size:200;not null"`
	Qty             int64  `gorm:"not null"`
	UnitPriceCents  int64  `gorm:"not null"`
	TotalPriceCents int64  `gorm:"not null"`
}

func (saleItemModel) TableName() string { return "sale_items" }

type salePaymentModel struct {
	ID             string `gorm:"primaryKey;size:64"`
	SaleID         string `gorm:"size:64;not null;index:idx_sale_payments_sale"`
	Position       int    `gorm:"not null"`
	Method         string `gorm:"size:20;not null"`
	AmountCents    int64  `gorm:"not null"`
	CashGivenCents *int64
	ChangeCents    *int64
	CreatedAt      time.Time
}

func (salePaymentModel) TableName() string { return "sale_payments" }

func saleFromDomain(s *entity.Sale) *saleModel {
	return &saleModel{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		AppointmentID: s.AppointmentID,
		Status:        s.Status,
		SubtotalCents: money.Cents(s.Subtotal),
		DiscountCents: money.Cents(s.Discount),
		TotalCents:    money.Cents(s.Total),
		Notes:         s.Notes,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		PaidAt:        s.PaidAt,
		RefundedAt:    s.RefundedAt,
	}
}

func itemsFromDomain(saleID string, items []entity.SaleItem) []saleItemModel {
	out := make([]saleItemModel, 0, len(items))
	for i, it := range items {
		out = append(out, saleItemModel{
			ID:              it.ID,
			SaleID:          saleID,
			Position:        i,
			ItemType:        it.ItemType,
			ProductID:       it.ProductID,
			ServiceID:       it.ServiceID,
			Name:            it.Name,
			Qty:             it.Qty,
			UnitPriceCents:  money.Cents(it.UnitPrice),
			TotalPriceCents: money.Cents(it.TotalPrice),
		})
	}
	return out
}

func paymentsFromDomain(saleID string, payments []entity.SalePayment) []salePaymentModel {
	out := make([]salePaymentModel, 0, len(payments))
	for i, p := range payments {
		m := salePaymentModel{
			ID:          p.ID,
			SaleID:      saleID,
			Position:    i,
			Method:      p.Method,
			AmountCents: money.Cents(p.Amount),
			CreatedAt:   p.CreatedAt,
		}
		if p.CashGiven != nil {
			c := money.Cents(*p.CashGiven)
			m.CashGivenCents = &c
		}
		if p.Change != nil {
			c := money.Cents(*p.Change)
			m.ChangeCents = &c
		}
		out = append(out, m)
	}
	return out
}

func saleToDomain(m *saleModel, items []saleItemModel, payments []salePaymentModel) *entity.Sale {
	s := &entity.Sale{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		AppointmentID: m.AppointmentID,
		Status:        m.Status,
		Subtotal:      money.FromCents(m.SubtotalCents),
		Discount:      money.FromCents(m.DiscountCents),
		Total:         money.FromCents(m.TotalCents),
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		PaidAt:        m.PaidAt,
		RefundedAt:    m.RefundedAt,
	}
	for _, it := range items {
		s.Items = append(s.Items, entity.SaleItem{
			ID:         it.ID,
			ItemType:   it.ItemType,
			ProductID:  it.ProductID,
			ServiceID:  it.ServiceID,
			Name:       it.Name,
			Qty:        it.Qty,
			UnitPrice:  money.FromCents(it.UnitPriceCents),
			TotalPrice: money.FromCents(it.TotalPriceCents),
		})
	}
	for _, p := range payments {
		sp := entity.SalePayment{
			ID:        p.ID,
			SaleID:    p.SaleID,
			Method:    p.Method,
			Amount:    money.FromCents(p.AmountCents),
			CreatedAt: p.CreatedAt,
		}
		if p.CashGivenCents != nil {
			v := money.FromCents(*p.CashGivenCents)
			sp.CashGiven = &v
		}
		if p.ChangeCents != nil {
			v := money.FromCents(*p.ChangeCents)
			sp.Change = &v
		}
		s.Payments = append(s.Payments, sp)
	}
	return s
}
