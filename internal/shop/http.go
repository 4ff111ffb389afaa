package shop

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PhoneShop/pkg/kit"
)

const (
	msgBadJSON      = "invalid JSON format"
	msgBadPhoneData = "invalid phone data"
	msgBadCartData  = "invalid cart data"
	msgServerError  = "server error"

	readyTimeout = 1 * time.Second
)

type Server struct {
	Store        Store
	Log          *zap.Logger
	MaxBodyBytes int64

	// WriteLimiter, when set, guards every mutating route.
	WriteLimiter func(http.Handler) http.Handler

	metrics *cartMetrics
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(kit.NotFound)
	r.MethodNotAllowed(kit.MethodNotAllowed)

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.ready)

	r.Get("/phones", s.listPhones)
	s.writes(r).Post("/phones", s.createPhone)

	// the phone is resolved before method routing, so an unknown id is a 404
	// whatever the verb or body
	r.Route("/phones/{id}", func(pr chi.Router) {
		pr.NotFound(kit.NotFound)
		pr.MethodNotAllowed(kit.MethodNotAllowed)
		pr.Use(s.requirePhone)
		pr.Get("/", s.getPhone)
		s.writes(pr).Put("/", s.updatePhone)
		s.writes(pr).Delete("/", s.deletePhone)
	})

	r.Get("/cart", s.listCart)
	s.writes(r).Post("/cart", s.addToCart)
	s.writes(r).Delete("/cart", s.removeFromCart)

	return r
}

func (s *Server) writes(r chi.Router) chi.Router {
	if s.WriteLimiter == nil {
		return r
	}
	return r.With(s.WriteLimiter)
}

type phoneKey struct{}

func (s *Server) requirePhone(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := phoneIDParam(r)
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, err.Error(), map[string]any{"id": chi.URLParam(r, "id")})
			return
		}

		p, err := s.Store.GetPhone(r.Context(), id)
		if err != nil {
			s.writeStoreError(w, r, err, msgBadPhoneData)
			return
		}

		ctx := context.WithValue(r.Context(), phoneKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func phoneFromContext(ctx context.Context) Phone {
	p, _ := ctx.Value(phoneKey{}).(Phone)
	return p
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) listPhones(w http.ResponseWriter, r *http.Request) {
	f, err := phoneFilter(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), map[string]any{"maxPrice": r.URL.Query().Get("maxPrice")})
		return
	}

	phones, err := s.Store.ListPhones(r.Context(), f)
	if err != nil {
		s.writeStoreError(w, r, err, msgBadPhoneData)
		return
	}
	kit.WriteJSON(w, http.StatusOK, phones)
}

func (s *Server) getPhone(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, phoneFromContext(r.Context()))
}

func (s *Server) createPhone(w http.ResponseWriter, r *http.Request) {
	var req createPhoneReq
	if !s.decode(w, r, &req, msgBadPhoneData) {
		return
	}

	p, err := s.Store.CreatePhone(r.Context(), req.toNewPhone())
	if err != nil {
		s.writeStoreError(w, r, err, msgBadPhoneData)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) updatePhone(w http.ResponseWriter, r *http.Request) {
	id := phoneFromContext(r.Context()).ID

	var req updatePhoneReq
	if !s.decode(w, r, &req, msgBadPhoneData) {
		return
	}

	p, err := s.Store.UpdatePhone(r.Context(), id, req.toUpdate())
	if err != nil {
		s.writeStoreError(w, r, err, msgBadPhoneData)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) deletePhone(w http.ResponseWriter, r *http.Request) {
	id := phoneFromContext(r.Context()).ID

	p, err := s.Store.DeletePhone(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, msgBadPhoneData)
		return
	}

	if lines, err := s.Store.CartLines(r.Context()); err == nil {
		s.metrics.setReserved(reservedUnits(lines))
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) listCart(w http.ResponseWriter, r *http.Request) {
	lines, err := s.Store.CartLines(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err, msgBadCartData)
		return
	}
	kit.WriteJSON(w, http.StatusOK, lines)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if !s.decode(w, r, &req, msgBadCartData) {
		s.metrics.reject(rejectBadInput)
		return
	}

	items, err := s.Store.AddToCart(r.Context(), req.PhoneID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientStock):
			s.metrics.reject(rejectNoStock)
		case errors.Is(err, ErrPhoneNotFound):
			s.metrics.reject(rejectNoPhone)
		}
		s.writeStoreError(w, r, err, msgBadCartData)
		return
	}

	s.metrics.setReserved(itemUnits(items))
	kit.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	phoneID, err := cartPhoneIDQuery(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), map[string]any{"phoneId": r.URL.Query().Get("phoneId")})
		return
	}

	items, err := s.Store.RemoveFromCart(r.Context(), phoneID)
	if err != nil {
		s.writeStoreError(w, r, err, msgBadCartData)
		return
	}

	s.metrics.setReserved(itemUnits(items))
	kit.WriteJSON(w, http.StatusOK, items)
}

// decode reads and validates a JSON body, writing the 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any, shapeMsg string) bool {
	if err := kit.DecodeJSON(w, r, s.MaxBodyBytes, dst); err != nil {
		if errors.Is(err, kit.ErrMalformedJSON) {
			kit.WriteError(w, r, http.StatusBadRequest, msgBadJSON, nil)
			return false
		}
		kit.WriteError(w, r, http.StatusBadRequest, shapeMsg, kit.ErrorDetails(err))
		return false
	}
	if err := kit.Validate(dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, shapeMsg, kit.ErrorDetails(err))
		return false
	}
	return true
}

// writeStoreError maps store sentinels to a status. invalidMsg is the
// resource specific message used for ErrInvalidInput.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, invalidMsg string) {
	switch {
	case errors.Is(err, ErrPhoneNotFound):
		kit.WriteError(w, r, http.StatusNotFound, ErrPhoneNotFound.Error(), nil)
	case errors.Is(err, ErrItemNotInCart):
		kit.WriteError(w, r, http.StatusNotFound, ErrItemNotInCart.Error(), nil)
	case errors.Is(err, ErrInsufficientStock):
		kit.WriteError(w, r, http.StatusBadRequest, ErrInsufficientStock.Error(), nil)
	case errors.Is(err, ErrEmptyUpdate):
		kit.WriteError(w, r, http.StatusBadRequest, ErrEmptyUpdate.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		kit.WriteError(w, r, http.StatusBadRequest, invalidMsg, map[string]any{"cause": err.Error()})
	default:
		s.logger().Error("store operation failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		kit.WriteError(w, r, http.StatusInternalServerError, msgServerError, nil)
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func itemUnits(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func reservedUnits(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
