package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domcart "example.com/stripe-shop/app/internal/domain/cart"
)

const cartTokenIssuer = "stripe-shop/cart"

// CartTokenService signs the whole cart into an HS256 token so the server
// keeps no cart state between requests.
type CartTokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewCartTokenService(secret string, expiration time.Duration) *CartTokenService {
	return &CartTokenService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

type cartClaims struct {
	Lines []domcart.Line `json:"lines"`
	jwt.RegisteredClaims
}

func (s *CartTokenService) Encode(c domcart.Cart) (string, error) {
	if err := checkLines(c.Lines); err != nil {
		return "", fmt.Errorf("%w: %w", domcart.ErrInvalidQuantity, err)
	}
	now := s.now()
	lines := c.Lines
	if lines == nil {
		lines = []domcart.Line{}
	}
	claims := cartClaims{
		Lines: lines,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cartTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *CartTokenService) Decode(token string) (domcart.Cart, error) {
	parsed, err := jwt.ParseWithClaims(token, &cartClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cartTokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domcart.Cart{}, fmt.Errorf("%w: %w", domcart.ErrInvalidCartToken, err)
	}

	claims, ok := parsed.Claims.(*cartClaims)
	if !ok || !parsed.Valid {
		return domcart.Cart{}, domcart.ErrInvalidCartToken
	}
	if err := checkLines(claims.Lines); err != nil {
		return domcart.Cart{}, fmt.Errorf("%w: %w", domcart.ErrInvalidCartToken, err)
	}

	return domcart.Cart{Lines: claims.Lines}, nil
}

func checkLines(lines []domcart.Line) error {
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return errors.New("non-positive quantity")
		}
		if l.Quantity > domcart.MaxLineQuantity {
			return errors.New("quantity over line limit")
		}
		if _, dup := seen[l.ProductID]; dup {
			return errors.New("duplicate line")
		}
		seen[l.ProductID] = struct{}{}
	}
	return nil
}
