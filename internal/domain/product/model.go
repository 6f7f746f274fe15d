package product

// Product is one row of the product master.
type Product struct {
	SKU         string
	Name        string
	UnitsPerBox int
}
