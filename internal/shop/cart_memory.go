package shop

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

func (s *MemStore) AddToCart(ctx context.Context, phoneID, quantity int) ([]CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.phoneIndex(phoneID)
	if i < 0 {
		return nil, ErrPhoneNotFound
	}
	if quantity > s.phones[i].Stock {
		return nil, ErrInsufficientStock
	}

	s.phones[i].Stock -= quantity
	if j := s.cartIndex(phoneID); j >= 0 {
		s.cart[j].Quantity += quantity
	} else {
		s.cart = append(s.cart, CartItem{PhoneID: phoneID, Quantity: quantity})
	}

	return s.cartSnapshot(), nil
}

func (s *MemStore) CartLines(ctx context.Context) ([]CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CartLine, 0, len(s.cart))
	for _, it := range s.cart {
		i := s.phoneIndex(it.PhoneID)
		if i < 0 {
			continue
		}
		out = append(out, CartLine{
			PhoneID:    it.PhoneID,
			Quantity:   it.Quantity,
			TotalPrice: LineTotal(s.phones[i].Price, it.Quantity),
		})
	}
	return out, nil
}

func (s *MemStore) RemoveFromCart(ctx context.Context, phoneID int) ([]CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.cartIndex(phoneID)
	if j < 0 {
		return nil, ErrItemNotInCart
	}

	removed := s.cart[j]
	s.cart = append(s.cart[:j], s.cart[j+1:]...)

	if i := s.phoneIndex(removed.PhoneID); i >= 0 {
		s.phones[i].Stock += removed.Quantity
	}

	return s.cartSnapshot(), nil
}

// LineTotal multiplies in decimal so 0.1 x 3 comes out as 0.3.
func LineTotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(quantity))).
		InexactFloat64()
}

func (s *MemStore) cartIndex(phoneID int) int {
	for i := range s.cart {
		if s.cart[i].PhoneID == phoneID {
			return i
		}
	}
	return -1
}

func (s *MemStore) cartSnapshot() []CartItem {
	out := make([]CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}
