package model

type CartItem struct {
	Book
	Quantity int `json:"quantity"`
}

func (c CartItem) Subtotal() int {
	return c.Price * c.Quantity
}

// StoreState is everything a session's catalog store owns.
type StoreState struct {
	Books []Book     `json:"books"`
	Cart  []CartItem `json:"cart"`
}

// Receipt describes a completed checkout.
type Receipt struct {
	Code       string
	Total      int
	Items      []CartItem
	PaymentURL string
}
