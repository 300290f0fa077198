package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
)

func pricedItem(price string, qty int) models.OrderItem {
	return models.OrderItem{
		Quantity: qty,
		Product:  &models.Product{Price: decimal.RequireFromString(price)},
	}
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual),
		"%s: expected %s, got %s", label, expected, actual)
}

func TestCalculateTotalsInclusiveShipping(t *testing.T) {
	items := []models.OrderItem{pricedItem("9.99", 3)}
	shipping := decimal.RequireFromString("11.00")

	totals := CalculateTotals(items, &shipping, true).Rounded()

	assertMoney(t, "29.97", totals.ProductSubtotal, "product subtotal")
	assertMoney(t, "10.00", totals.ShippingExGST, "shipping ex gst")
	assertMoney(t, "3.00", totals.GSTOnProducts, "gst on products")
	assertMoney(t, "1.00", totals.GSTOnShipping, "gst on shipping")
	assertMoney(t, "39.97", totals.SubtotalExGST, "subtotal ex gst")
	assertMoney(t, "4.00", totals.GSTTotal, "gst total")
	assertMoney(t, "43.97", totals.GrandTotal, "grand total")
}

func TestCalculateTotalsExclusiveShipping(t *testing.T) {
	items := []models.OrderItem{pricedItem("100.00", 1)}
	shipping := decimal.RequireFromString("10.00")

	totals := CalculateTotals(items, &shipping, false).Rounded()

	assertMoney(t, "10.00", totals.ShippingExGST, "shipping ex gst")
	assertMoney(t, "11.00", totals.GSTTotal, "gst total")
	assertMoney(t, "121.00", totals.GrandTotal, "grand total")
}

func TestCalculateTotalsNoShipping(t *testing.T) {
	items := []models.OrderItem{pricedItem("5.50", 2)}

	totals := CalculateTotals(items, nil, true).Rounded()

	assertMoney(t, "11.00", totals.ProductSubtotal, "product subtotal")
	assertMoney(t, "0.00", totals.ShippingExGST, "shipping ex gst")
	assertMoney(t, "12.10", totals.GrandTotal, "grand total")
}

func TestCalculateTotalsSkipsUnpricedLines(t *testing.T) {
	items := []models.OrderItem{
		pricedItem("10.00", 1),
		{Quantity: 5, Product: nil},
		pricedItem("10.00", 0),
	}

	totals := CalculateTotals(items, nil, true).Rounded()
	assertMoney(t, "10.00", totals.ProductSubtotal, "product subtotal")
}

func TestCalculateTotalsEmptyOrder(t *testing.T) {
	totals := CalculateTotals(nil, nil, true).Rounded()
	assertMoney(t, "0.00", totals.GrandTotal, "grand total")
}

func TestCalculateTotalsKeepsPrecisionUntilRounded(t *testing.T) {
	// 10.00 / 1.1 is a repeating decimal; the raw figure must carry more than
	// two places so that downstream sums do not accumulate rounding drift.
	shipping := decimal.RequireFromString("10.00")
	raw := CalculateTotals(nil, &shipping, true)

	assert.False(t, raw.ShippingExGST.Equal(raw.ShippingExGST.Round(2)))
	assertMoney(t, "9.09", raw.Rounded().ShippingExGST, "shipping ex gst")
}
