package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// UnrankedOrder is the sort rank applied to sections without an explicit
// order. It sorts after every ranked section.
const UnrankedOrder = 999

// Product represents a catalog product
type Product struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Section string    `json:"section"`
	Icon    string    `json:"icon"`
	Image   string    `json:"image"`
	Created time.Time `json:"created"`
}

// Section represents a catalog section grouping products on the list view.
// A nil Order means the section has never been ranked.
type Section struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Order    *int   `json:"order,omitempty"`
	Collapse bool   `json:"collapse"`
}

// Rank returns the display rank of the section, substituting the
// unranked sentinel when no order is set.
func (s Section) Rank() int {
	if s.Order == nil {
		return UnrankedOrder
	}
	return *s.Order
}

// CartItem represents a product's presence in a cart. The ID is the
// product id. Absence from the cart means "not in cart", not zero
// quantity.
type CartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Checked  bool   `json:"checked"`
}

// MainCart is the singleton cart used by the primary shopping-list view,
// keyed by product id so each product appears at most once.
type MainCart struct {
	Products map[string]CartItem `json:"products"`
}

// Cart is a named secondary cart. Unlike MainCart its items are kept as
// an array.
type Cart struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Products []CartItem `json:"products"`
}

// Document is the root persisted state. It is held and replaced as one
// unit with no internal transaction boundaries.
type Document struct {
	Sections []Section `json:"sections"`
	Products []Product `json:"products"`
	MainCart MainCart  `json:"mainCart"`
	Carts    []Cart    `json:"carts"`
}

// NewDocument returns an empty, fully initialized document.
func NewDocument() Document {
	return Document{
		Sections: []Section{},
		Products: []Product{},
		MainCart: MainCart{Products: map[string]CartItem{}},
		Carts:    []Cart{},
	}
}

// Normalize initializes any nil collections so callers never see nil
// maps or slices after deserialization.
func (d *Document) Normalize() {
	if d.Sections == nil {
		d.Sections = []Section{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.MainCart.Products == nil {
		d.MainCart.Products = map[string]CartItem{}
	}
	if d.Carts == nil {
		d.Carts = []Cart{}
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{
		Sections: make([]Section, len(d.Sections)),
		Products: make([]Product, len(d.Products)),
		MainCart: MainCart{Products: make(map[string]CartItem, len(d.MainCart.Products))},
		Carts:    make([]Cart, len(d.Carts)),
	}
	copy(out.Sections, d.Sections)
	for i, s := range d.Sections {
		if s.Order != nil {
			order := *s.Order
			out.Sections[i].Order = &order
		}
	}
	copy(out.Products, d.Products)
	for id, item := range d.MainCart.Products {
		out.MainCart.Products[id] = item
	}
	for i, c := range d.Carts {
		out.Carts[i] = Cart{ID: c.ID, Name: c.Name, Products: make([]CartItem, len(c.Products))}
		copy(out.Carts[i].Products, c.Products)
	}
	return out
}
