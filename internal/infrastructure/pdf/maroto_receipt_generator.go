// Package pdf genera el comprobante de venta del salón con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del salón + ID fiscal │ N° + Fecha          │
//	│  CLIENTE                                                    │
//	│  TABLA: Cant | Descripción | P.Unit | Total                 │
//	│  TOTALES: Subtotal / Descuento / TOTAL                      │
//	│  PAGOS: Medio | Monto | Entregado | Vuelto                  │
//	│  FOOTER: QR con el ID de la venta + leyenda                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/application/receipt"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 120, Green: 40, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ receipt.Generator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa receipt.Generator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateSaleReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateSaleReceipt(_ context.Context, sale *entity.Sale, header receipt.Header) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(nonEmpty(header.BusinessName, "Salon"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, header))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(sale, header))
	if sale.Status == entity.SaleStatusRefunded {
		m.AddRows(refundedRow(sale))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(sale.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(paymentsHeaderRow())
	m.AddRows(paymentRows(sale.Payments)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(sale, header))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(sale *entity.Sale, header receipt.Header) core.Row {
	date := sale.CreatedAt
	if sale.PaidAt != nil {
		date = *sale.PaidAt
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(header.BusinessName, "Salón"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(contactLine(header), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+receipt.ShortID(sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(sale *entity.Sale, header receipt.Header) core.Row {
	customer := "Consumidor final"
	if sale.HasCustomer() {
		customer = "Cliente: " + sale.CustomerID
	}
	detail := "Atendió: " + nonEmpty(sale.CreatedBy, "—")
	if sale.AppointmentID != "" {
		detail += "   |   Cita: " + sale.AppointmentID
	}
	if header.TaxID != "" {
		detail += "   |   ID fiscal emisor: " + header.TaxID
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(customer, props.Text{Style: fontstyle.Bold, Size: 10, Top: 1}),
			text.New(detail, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func refundedRow(sale *entity.Sale) core.Row {
	label := "VENTA REEMBOLSADA"
	if sale.RefundedAt != nil {
		label += " el " + sale.RefundedAt.Format("02/01/2006 15:04")
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorAlert, Top: 1}),
	))
}

func itemsHeaderRow() core.Row {
	return row.New(7).Add(
		headerCol("Cant.", 1, align.Center),
		headerCol("Descripción", 6, align.Left),
		headerCol("Precio Unit.", 2, align.Right),
		headerCol("Total", 3, align.Right),
	)
}

func itemRows(items []entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Qty), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(it.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New("$"+formatMoney(it.TotalPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			label("Descuento:"),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2}),
		),
		col.New(3).Add(
			value("$"+formatMoney(sale.Subtotal)),
			value("-$"+formatMoney(sale.Discount)),
			text.New("$"+formatMoney(sale.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}),
		),
	)
}

func paymentsHeaderRow() core.Row {
	return row.New(7).Add(
		headerCol("Medio de pago", 4, align.Left),
		headerCol("Monto", 3, align.Right),
		headerCol("Entregado", 3, align.Right),
		headerCol("Vuelto", 2, align.Right),
	)
}

func paymentRows(payments []entity.SalePayment) []core.Row {
	result := make([]core.Row, 0, len(payments))
	for _, p := range payments {
		given, change := "—", "—"
		if p.CashGiven != nil {
			given = "$" + formatMoney(*p.CashGiven)
		}
		if p.Change != nil {
			change = "$" + formatMoney(*p.Change)
		}
		result = append(result, row.New(6).Add(
			col.New(4).Add(text.New(methodLabel(p.Method), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New("$"+formatMoney(p.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(given, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(change, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func footerRow(sale *entity.Sale, header receipt.Header) core.Row {
	legend := nonEmpty(header.Footer, "Gracias por su visita.")
	return row.New(36).Add(
		col.New(3).Add(code.NewQr(sale.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Venta "+sale.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New(legend, props.Text{Style: fontstyle.Bold, Size: 9, Top: 14, Left: 3, Color: colorPrimary}),
			text.New("Este comprobante no reemplaza la factura fiscal.", props.Text{Size: 6.5, Top: 24, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
	}))
}

func contactLine(h receipt.Header) string {
	parts := make([]string, 0, 2)
	if h.Address != "" {
		parts = append(parts, h.Address)
	}
	if h.Phone != "" {
		parts = append(parts, "Tel: "+h.Phone)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "   |   ")
}

func methodLabel(method string) string {
	switch method {
	case entity.PaymentMethodCash:
		return "Efectivo"
	case entity.PaymentMethodPix:
		return "PIX"
	case entity.PaymentMethodCard:
		return "Tarjeta"
	case entity.PaymentMethodTransfer:
		return "Transferencia"
	case entity.PaymentMethodCredit:
		return "Crédito del cliente"
	case entity.PaymentMethodFiado:
		return "Fiado"
	default:
		return method
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con 2 decimales, puntos de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}
