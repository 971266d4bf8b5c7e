package cart

import domproduct "example.com/stripe-shop/app/internal/domain/product"

// Line is one product-quantity pairing. The product fields are a snapshot
// taken when the product was first added and are never refreshed.
type Line struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Quantity    int64  `json:"quantity"`
}

// Cart holds at most one line per product, in the order products were added.
type Cart struct {
	Lines []Line `json:"lines"`
}

func LineFromProduct(p domproduct.Product, quantity int64) Line {
	return Line{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Quantity:    quantity,
	}
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) Find(productID int64) (Line, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

func (c Cart) TotalQuantity() int64 {
	var n int64
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of price*quantity in minor units.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Price * l.Quantity
	}
	return total
}

func (c Cart) clone() Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
