package shop

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
)

// MemStore keeps the catalog and the cart behind one mutex: cart operations
// read and write phone stock, so the two collections must change together.
type MemStore struct {
	mu     sync.Mutex
	phones []Phone
	cart   []CartItem
}

func NewMemStore() *MemStore {
	return &MemStore{
		phones: make([]Phone, 0, 8),
		cart:   make([]CartItem, 0, 8),
	}
}

func NewStore() *MemStore {
	s := NewMemStore()
	s.phones = append(s.phones, SeedPhones()...)
	return s
}

func SeedPhones() []Phone {
	return []Phone{
		{ID: 1, Name: "iPhone 14", Brand: "Apple", Price: 1200, Stock: 10},
		{ID: 2, Name: "Galaxy S23", Brand: "Samsung", Price: 900, Stock: 15},
		{ID: 3, Name: "Pixel 7", Brand: "Google", Price: 800, Stock: 5},
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemStore) ListPhones(ctx context.Context, f Filter) ([]Phone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Phone, 0, len(s.phones))
	for _, p := range s.phones {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemStore) GetPhone(ctx context.Context, id int) (Phone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.phoneIndex(id)
	if i < 0 {
		return Phone{}, ErrPhoneNotFound
	}
	return s.phones[i], nil
}

func (s *MemStore) CreatePhone(ctx context.Context, in NewPhone) (Phone, error) {
	p := Phone{
		Name:  strings.TrimSpace(in.Name),
		Brand: strings.TrimSpace(in.Brand),
		Price: in.Price,
		Stock: in.Stock,
	}
	if err := checkPhone(p); err != nil {
		return Phone{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID()
	s.phones = append(s.phones, p)
	return p, nil
}

func (s *MemStore) UpdatePhone(ctx context.Context, id int, u PhoneUpdate) (Phone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.phoneIndex(id)
	if i < 0 {
		return Phone{}, ErrPhoneNotFound
	}
	if u.Empty() {
		return Phone{}, ErrEmptyUpdate
	}

	p := s.phones[i]
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Brand != nil {
		p.Brand = strings.TrimSpace(*u.Brand)
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if err := checkPhone(p); err != nil {
		return Phone{}, err
	}

	s.phones[i] = p
	return p, nil
}

func (s *MemStore) DeletePhone(ctx context.Context, id int) (Phone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.phoneIndex(id)
	if i < 0 {
		return Phone{}, ErrPhoneNotFound
	}

	p := s.phones[i]
	s.phones = append(s.phones[:i], s.phones[i+1:]...)

	// a reservation cannot outlive the phone it was taken from
	if j := s.cartIndex(id); j >= 0 {
		s.cart = append(s.cart[:j], s.cart[j+1:]...)
	}
	return p, nil
}

func (s *MemStore) phoneIndex(id int) int {
	for i := range s.phones {
		if s.phones[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemStore) nextID() int {
	maxID := 0
	for _, p := range s.phones {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

func checkPhone(p Phone) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case p.Brand == "":
		return fmt.Errorf("%w: brand is required", ErrInvalidInput)
	case math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0:
		return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidInput)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must be a non-negative integer", ErrInvalidInput)
	}
	return nil
}
