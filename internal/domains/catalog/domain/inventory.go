package domain

// Reservation asks for a quantity of one product to be taken from stock.
type Reservation struct {
	ProductID string
	Quantity  int
}

// Snapshot captures the product identity and price at reservation time, so
// later catalog edits never rewrite what was sold.
type Snapshot struct {
	ProductID string
	Name      string
	Price     float64
}
