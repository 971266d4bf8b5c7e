package cart

import (
	"context"
	"strings"

	domcart "example.com/stripe-shop/app/internal/domain/cart"
	domproduct "example.com/stripe-shop/app/internal/domain/product"
)

// TokenCodec turns a cart into an opaque client-held token and back.
type TokenCodec interface {
	Encode(c domcart.Cart) (string, error)
	Decode(token string) (domcart.Cart, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

// State is a cart together with the token that encodes it.
type State struct {
	Cart  domcart.Cart
	Token string
}

type MergeItem struct {
	ProductID int64
	Quantity  int64
}

type Service struct {
	codec       TokenCodec
	productRepo ProductRepository
}

func NewService(codec TokenCodec, productRepo ProductRepository) *Service {
	return &Service{
		codec:       codec,
		productRepo: productRepo,
	}
}

// Load decodes token. An empty token is an empty cart.
func (s *Service) Load(token string) (domcart.Cart, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domcart.Cart{Lines: []domcart.Line{}}, nil
	}
	return s.codec.Decode(token)
}

func (s *Service) Get(ctx context.Context, token string) (*State, error) {
	c, err := s.Load(token)
	if err != nil {
		return nil, err
	}
	return s.state(c)
}

func (s *Service) AddItem(ctx context.Context, token string, productID int64) (*State, error) {
	c, err := s.Load(token)
	if err != nil {
		return nil, err
	}
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	next, err := domcart.Add(c, *p)
	if err != nil {
		return nil, err
	}
	return s.state(next)
}

func (s *Service) DecrementItem(ctx context.Context, token string, productID int64) (*State, error) {
	c, err := s.Load(token)
	if err != nil {
		return nil, err
	}
	return s.state(domcart.Decrement(c, productID))
}

func (s *Service) RemoveItem(ctx context.Context, token string, productID int64) (*State, error) {
	c, err := s.Load(token)
	if err != nil {
		return nil, err
	}
	return s.state(domcart.Remove(c, productID))
}

// Merge folds items, typically a guest cart kept by the browser, into the
// token cart. Snapshots for new lines come from the catalog.
func (s *Service) Merge(ctx context.Context, token string, items []MergeItem) (*State, error) {
	c, err := s.Load(token)
	if err != nil {
		return nil, err
	}

	src := domcart.Cart{Lines: make([]domcart.Line, 0, len(items))}
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		p, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		src.Lines = append(src.Lines, domcart.LineFromProduct(*p, item.Quantity))
	}

	next, err := domcart.Merge(c, src)
	if err != nil {
		return nil, err
	}
	return s.state(next)
}

func (s *Service) state(c domcart.Cart) (*State, error) {
	if c.Lines == nil {
		c.Lines = []domcart.Line{}
	}
	token, err := s.codec.Encode(c)
	if err != nil {
		return nil, err
	}
	return &State{Cart: c, Token: token}, nil
}
