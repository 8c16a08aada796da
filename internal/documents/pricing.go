package documents

// LineInput is the pricing input for one document line.
type LineInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice float64
	Discount  float64
	Notes     string
}

// PricedLine is a line with its computed subtotal.
type PricedLine struct {
	LineInput
	Subtotal float64
}

// PriceLines computes each line's subtotal and the document total.
// subtotal = quantity * unitPrice * (1 - discount/100). Full floating
// precision is carried through; the persistence layer owns decimal storage.
func PriceLines(lines []LineInput) ([]PricedLine, float64) {
	priced := make([]PricedLine, 0, len(lines))
	var total float64
	for _, line := range lines {
		subtotal := float64(line.Quantity) * line.UnitPrice * (1 - line.Discount/100)
		priced = append(priced, PricedLine{LineInput: line, Subtotal: subtotal})
		total += subtotal
	}
	return priced, total
}

// GrandTotal applies the document-level flat discount to the line total.
func GrandTotal(total, discountAmount float64) float64 {
	return total - discountAmount
}
