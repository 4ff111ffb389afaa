package shop

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type createPhoneReq struct {
	Name  string   `json:"name" validate:"required"`
	Brand string   `json:"brand" validate:"required"`
	Price *float64 `json:"price" validate:"required,gte=0"`
	Stock *int     `json:"stock" validate:"required,gte=0"`
}

func (r createPhoneReq) toNewPhone() NewPhone {
	return NewPhone{Name: r.Name, Brand: r.Brand, Price: *r.Price, Stock: *r.Stock}
}

type updatePhoneReq struct {
	Name  *string  `json:"name" validate:"omitempty,min=1"`
	Brand *string  `json:"brand" validate:"omitempty,min=1"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock *int     `json:"stock" validate:"omitempty,gte=0"`
}

func (r updatePhoneReq) toUpdate() PhoneUpdate {
	return PhoneUpdate{Name: r.Name, Brand: r.Brand, Price: r.Price, Stock: r.Stock}
}

type addToCartReq struct {
	PhoneID  int `json:"phoneId" validate:"gt=0"`
	Quantity int `json:"quantity" validate:"gt=0"`
}

var (
	errBadPhoneID  = errors.New("invalid phone id")
	errBadMaxPrice = errors.New("invalid maxPrice")
	errBadCartID   = errors.New("invalid phoneId")
)

func phoneIDParam(r *http.Request) (int, error) {
	return positiveInt(chi.URLParam(r, "id"), errBadPhoneID)
}

func cartPhoneIDQuery(r *http.Request) (int, error) {
	return positiveInt(r.URL.Query().Get("phoneId"), errBadCartID)
}

func positiveInt(raw string, bad error) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, bad
	}
	return n, nil
}

func phoneFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	f := Filter{Brand: q.Get("brand")}

	raw := strings.TrimSpace(q.Get("maxPrice"))
	if raw == "" {
		return f, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return Filter{}, errBadMaxPrice
	}
	f.MaxPrice = &v
	return f, nil
}
