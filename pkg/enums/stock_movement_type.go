package enums

import "fmt"

// StockMovementType classifies entries in the stock-movement ledger.
// ALLOCATE and DEALLOCATE are audit-only reservations; SHIP and ADJUST are the
// only types that change physical stock.
type StockMovementType string

const (
	StockMovementAllocate   StockMovementType = "ALLOCATE"
	StockMovementDeallocate StockMovementType = "DEALLOCATE"
	StockMovementShip       StockMovementType = "SHIP"
	StockMovementAdjust     StockMovementType = "ADJUST"
)

var validStockMovementTypes = []StockMovementType{
	StockMovementAllocate,
	StockMovementDeallocate,
	StockMovementShip,
	StockMovementAdjust,
}

// String implements fmt.Stringer.
func (t StockMovementType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known StockMovementType.
func (t StockMovementType) IsValid() bool {
	for _, candidate := range validStockMovementTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStockMovementType converts raw input into a StockMovementType.
func ParseStockMovementType(value string) (StockMovementType, error) {
	for _, candidate := range validStockMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement type %q", value)
}
