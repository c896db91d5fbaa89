package model

import "time"

type CartItem struct {
	ServiceID int64 `json:"service_id"`
	Quantity  int   `json:"quantity"`
}

// Session is the persisted application state of one cart owner: the
// quantities picked in the browse view and the cart itself.
type Session struct {
	Owner      string        `json:"owner"`
	Selections map[int64]int `json:"selections"`
	Cart       []CartItem    `json:"cart"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func NewSession(owner string) *Session {
	return &Session{
		Owner:      owner,
		Selections: make(map[int64]int),
		Cart:       []CartItem{},
	}
}

func (s *Session) cartIndex(serviceID int64) int {
	for i, item := range s.Cart {
		if item.ServiceID == serviceID {
			return i
		}
	}
	return -1
}

// CartQuantity returns the quantity held for the service, or 0.
func (s *Session) CartQuantity(serviceID int64) int {
	if pos := s.cartIndex(serviceID); pos >= 0 {
		return s.Cart[pos].Quantity
	}
	return 0
}

// AddToCart merges quantity into the existing entry for the service, or
// appends a new one.
func (s *Session) AddToCart(serviceID int64, quantity int) {
	if pos := s.cartIndex(serviceID); pos >= 0 {
		s.Cart[pos].Quantity += quantity
		return
	}
	s.Cart = append(s.Cart, CartItem{ServiceID: serviceID, Quantity: quantity})
}

func (s *Session) RemoveFromCart(serviceID int64) {
	pos := s.cartIndex(serviceID)
	if pos < 0 {
		return
	}
	s.Cart = append(s.Cart[:pos], s.Cart[pos+1:]...)
}

// UpdateCartQuantity reports whether the service was in the cart.
func (s *Session) UpdateCartQuantity(serviceID int64, quantity int) bool {
	pos := s.cartIndex(serviceID)
	if pos < 0 {
		return false
	}
	s.Cart[pos].Quantity = quantity
	return true
}

func (s *Session) ClearCart() {
	s.Cart = []CartItem{}
}

func (s *Session) SetSelection(serviceID int64, quantity int) {
	if s.Selections == nil {
		s.Selections = make(map[int64]int)
	}
	if quantity == 0 {
		delete(s.Selections, serviceID)
		return
	}
	s.Selections[serviceID] = quantity
}

func (s *Session) ResetSelections() {
	s.Selections = make(map[int64]int)
}
