package shop

import (
	"context"
	"errors"
)

type Phone struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type NewPhone struct {
	Name  string
	Brand string
	Price float64
	Stock int
}

// PhoneUpdate is a partial update; nil fields are left unchanged.
type PhoneUpdate struct {
	Name  *string
	Brand *string
	Price *float64
	Stock *int
}

func (u PhoneUpdate) Empty() bool {
	return u.Name == nil && u.Brand == nil && u.Price == nil && u.Stock == nil
}

type Filter struct {
	Brand    string
	MaxPrice *float64
}

func (f Filter) Match(p Phone) bool {
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

type CartItem struct {
	PhoneID  int `json:"phoneId"`
	Quantity int `json:"quantity"`
}

type CartLine struct {
	PhoneID    int     `json:"phoneId"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyUpdate       = errors.New("no data to update")
	ErrPhoneNotFound     = errors.New("phone not found")
	ErrItemNotInCart     = errors.New("item not found in cart")
	ErrInsufficientStock = errors.New("not enough stock")
)

type CatalogStore interface {
	ListPhones(ctx context.Context, f Filter) ([]Phone, error)
	GetPhone(ctx context.Context, id int) (Phone, error)
	CreatePhone(ctx context.Context, in NewPhone) (Phone, error)
	UpdatePhone(ctx context.Context, id int, u PhoneUpdate) (Phone, error)
	DeletePhone(ctx context.Context, id int) (Phone, error)
}

type CartStore interface {
	AddToCart(ctx context.Context, phoneID, quantity int) ([]CartItem, error)
	CartLines(ctx context.Context) ([]CartLine, error)
	RemoveFromCart(ctx context.Context, phoneID int) ([]CartItem, error)
}

type Store interface {
	CatalogStore
	CartStore
	Ping(ctx context.Context) error
}
