package cart

import (
	"fmt"

	domproduct "example.com/stripe-shop/app/internal/domain/product"
)

// MaxLineQuantity caps a single line so quantities and subtotals stay far
// from int64 overflow.
const MaxLineQuantity int64 = 999

// The reducer functions never mutate their input; each returns a new Cart.

// Add increments the line for p.ID, or appends a new line with quantity 1.
// An existing line keeps the snapshot it was created with. Going past
// MaxLineQuantity fails with ErrInvalidQuantity.
func Add(c Cart, p domproduct.Product) (Cart, error) {
	next := c.clone()
	for i := range next.Lines {
		if next.Lines[i].ProductID == p.ID {
			if next.Lines[i].Quantity >= MaxLineQuantity {
				return c, quantityLimitError(p.ID)
			}
			next.Lines[i].Quantity++
			return next, nil
		}
	}
	next.Lines = append(next.Lines, LineFromProduct(p, 1))
	return next, nil
}

// Remove drops the line for productID. Unknown ids are a no-op.
func Remove(c Cart, productID int64) Cart {
	next := Cart{Lines: make([]Line, 0, len(c.Lines))}
	for _, l := range c.Lines {
		if l.ProductID != productID {
			next.Lines = append(next.Lines, l)
		}
	}
	return next
}

// Decrement lowers the quantity by one and removes the line when it hits zero.
func Decrement(c Cart, productID int64) Cart {
	next := Cart{Lines: make([]Line, 0, len(c.Lines))}
	for _, l := range c.Lines {
		if l.ProductID == productID {
			l.Quantity--
			if l.Quantity < 1 {
				continue
			}
		}
		next.Lines = append(next.Lines, l)
	}
	return next
}

// Merge folds src into dst. Quantities are summed, dst snapshots win, and
// src lines with a non-positive quantity are skipped. A line whose sum
// would exceed MaxLineQuantity fails the whole merge with ErrInvalidQuantity.
func Merge(dst, src Cart) (Cart, error) {
	next := dst.clone()
	index := make(map[int64]int, len(next.Lines))
	for i, l := range next.Lines {
		index[l.ProductID] = i
	}

	for _, l := range src.Lines {
		if l.Quantity < 1 {
			continue
		}
		if i, ok := index[l.ProductID]; ok {
			if l.Quantity > MaxLineQuantity-next.Lines[i].Quantity {
				return dst, quantityLimitError(l.ProductID)
			}
			next.Lines[i].Quantity += l.Quantity
			continue
		}
		if l.Quantity > MaxLineQuantity {
			return dst, quantityLimitError(l.ProductID)
		}
		index[l.ProductID] = len(next.Lines)
		next.Lines = append(next.Lines, l)
	}
	return next, nil
}

func quantityLimitError(productID int64) error {
	return fmt.Errorf("%w: product %d exceeds %d per line", ErrInvalidQuantity, productID, MaxLineQuantity)
}
