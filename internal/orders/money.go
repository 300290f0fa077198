package orders

import (
	"github.com/shopspring/decimal"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
)

var (
	gstRate    = decimal.RequireFromString("0.10")
	gstDivisor = decimal.RequireFromString("1.1")
)

// Totals carries the derived monetary figures for an order. Values keep full
// decimal precision; Rounded produces the 2dp presentation form.
type Totals struct {
	ProductSubtotal decimal.Decimal `json:"product_subtotal"`
	ShippingExGST   decimal.Decimal `json:"shipping_ex_gst"`
	GSTOnProducts   decimal.Decimal `json:"gst_on_products"`
	GSTOnShipping   decimal.Decimal `json:"gst_on_shipping"`
	SubtotalExGST   decimal.Decimal `json:"subtotal_ex_gst"`
	GSTTotal        decimal.Decimal `json:"gst_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

// CalculateTotals derives the order's money figures from its priced line items
// and shipping charge fields. Shipping cost entered GST-inclusive is divided by
// 1.1 to recover the tax-exclusive amount; GST is 10% of products and shipping
// separately. No rounding happens here.
func CalculateTotals(items []models.OrderItem, shippingCost *decimal.Decimal, shippingGSTIncl bool) Totals {
	productSubtotal := decimal.Zero
	for _, item := range items {
		if item.Product == nil || item.Quantity <= 0 {
			continue
		}
		line := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		productSubtotal = productSubtotal.Add(line)
	}

	shippingExGST := decimal.Zero
	if shippingCost != nil {
		if shippingGSTIncl {
			shippingExGST = shippingCost.Div(gstDivisor)
		} else {
			shippingExGST = *shippingCost
		}
	}

	gstOnProducts := productSubtotal.Mul(gstRate)
	gstOnShipping := shippingExGST.Mul(gstRate)
	subtotalExGST := productSubtotal.Add(shippingExGST)
	gstTotal := gstOnProducts.Add(gstOnShipping)

	return Totals{
		ProductSubtotal: productSubtotal,
		ShippingExGST:   shippingExGST,
		GSTOnProducts:   gstOnProducts,
		GSTOnShipping:   gstOnShipping,
		SubtotalExGST:   subtotalExGST,
		GSTTotal:        gstTotal,
		GrandTotal:      subtotalExGST.Add(gstTotal),
	}
}

// Rounded returns the totals rounded to 2 decimal places for presentation.
func (t Totals) Rounded() Totals {
	return Totals{
		ProductSubtotal: t.ProductSubtotal.Round(2),
		ShippingExGST:   t.ShippingExGST.Round(2),
		GSTOnProducts:   t.GSTOnProducts.Round(2),
		GSTOnShipping:   t.GSTOnShipping.Round(2),
		SubtotalExGST:   t.SubtotalExGST.Round(2),
		GSTTotal:        t.GSTTotal.Round(2),
		GrandTotal:      t.GrandTotal.Round(2),
	}
}
