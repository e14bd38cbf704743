// Package store holds the in-memory mirror of the root document and the
// entity operations both persistence backends share. Backends wrap a
// Mirror with their own persist/reload cycle; the mirror itself does no
// locking or I/O.
package store

import (
	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/ports"
)

// Mirror is the mutable in-memory copy of the document.
type Mirror struct {
	Doc entities.Document
}

// NewMirror returns a mirror over an empty document.
func NewMirror() *Mirror {
	return &Mirror{Doc: entities.NewDocument()}
}

// CreateProduct appends the product to the collection.
func (m *Mirror) CreateProduct(product entities.Product) entities.Product {
	m.Doc.Products = append(m.Doc.Products, product)
	return product
}

// UpdateProduct merges the supplied fields into the record with the
// given id. The collection is untouched when the id is unknown.
func (m *Mirror) UpdateProduct(id string, req ports.UpdateProductRequest) (entities.Product, error) {
	for i := range m.Doc.Products {
		if m.Doc.Products[i].ID != id {
			continue
		}
		p := &m.Doc.Products[i]
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Section != nil {
			p.Section = *req.Section
		}
		if req.Icon != nil {
			p.Icon = *req.Icon
		}
		if req.Image != nil {
			p.Image = *req.Image
		}
		return *p, nil
	}
	return entities.Product{}, entities.ErrProductNotFound
}

// DeleteProduct filters the product out by id and cascades to the
// main-cart entry referencing it. Idempotent.
func (m *Mirror) DeleteProduct(id string) {
	kept := m.Doc.Products[:0]
	for _, p := range m.Doc.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.Doc.Products = kept
	delete(m.Doc.MainCart.Products, id)
}

// CreateSection appends the section, defaulting a missing order to
// one past the highest existing order (1 for an empty collection).
func (m *Mirror) CreateSection(section entities.Section) entities.Section {
	if section.Order == nil {
		maxOrder := 0
		for _, s := range m.Doc.Sections {
			if s.Order != nil && *s.Order > maxOrder {
				maxOrder = *s.Order
			}
		}
		order := maxOrder + 1
		section.Order = &order
	}
	m.Doc.Sections = append(m.Doc.Sections, section)
	return section
}

// UpdateSection merges the supplied fields into the record with the
// given id.
func (m *Mirror) UpdateSection(id string, req ports.UpdateSectionRequest) (entities.Section, error) {
	for i := range m.Doc.Sections {
		if m.Doc.Sections[i].ID != id {
			continue
		}
		s := &m.Doc.Sections[i]
		if req.Name != nil {
			s.Name = *req.Name
		}
		if req.Order != nil {
			order := *req.Order
			s.Order = &order
		}
		if req.Collapse != nil {
			s.Collapse = *req.Collapse
		}
		return *s, nil
	}
	return entities.Section{}, entities.ErrSectionNotFound
}

// DeleteSection filters the section out by id. Products referencing it
// are left in place. Idempotent.
func (m *Mirror) DeleteSection(id string) {
	kept := m.Doc.Sections[:0]
	for _, s := range m.Doc.Sections {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	m.Doc.Sections = kept
}

// UpsertMainCartItem inserts or replaces the main-cart entry keyed by
// the item id.
func (m *Mirror) UpsertMainCartItem(item entities.CartItem) entities.CartItem {
	m.Doc.MainCart.Products[item.ID] = item
	return item
}

// RemoveMainCartItem deletes the key if present. Idempotent.
func (m *Mirror) RemoveMainCartItem(id string) {
	delete(m.Doc.MainCart.Products, id)
}

// CreateCart appends a named cart.
func (m *Mirror) CreateCart(cart entities.Cart) entities.Cart {
	if cart.Products == nil {
		cart.Products = []entities.CartItem{}
	}
	m.Doc.Carts = append(m.Doc.Carts, cart)
	return cart
}

func (m *Mirror) findCart(id string) (*entities.Cart, error) {
	for i := range m.Doc.Carts {
		if m.Doc.Carts[i].ID == id {
			return &m.Doc.Carts[i], nil
		}
	}
	return nil, entities.ErrCartNotFound
}

// GetCart returns a copy of the named cart with the given id. The item
// slice is copied so the caller never aliases the live document.
func (m *Mirror) GetCart(id string) (entities.Cart, error) {
	cart, err := m.findCart(id)
	if err != nil {
		return entities.Cart{}, err
	}
	out := entities.Cart{ID: cart.ID, Name: cart.Name, Products: make([]entities.CartItem, len(cart.Products))}
	copy(out.Products, cart.Products)
	return out, nil
}

// UpdateCart merges the supplied fields into the cart.
func (m *Mirror) UpdateCart(id string, req ports.UpdateCartRequest) (entities.Cart, error) {
	cart, err := m.findCart(id)
	if err != nil {
		return entities.Cart{}, err
	}
	if req.Name != nil {
		cart.Name = *req.Name
	}
	if req.Products != nil {
		cart.Products = *req.Products
	}
	return *cart, nil
}

// AddCartItem appends the item to the cart, accumulating quantity when
// the product is already present.
func (m *Mirror) AddCartItem(cartID string, item entities.CartItem) (entities.Cart, error) {
	cart, err := m.findCart(cartID)
	if err != nil {
		return entities.Cart{}, err
	}
	for i := range cart.Products {
		if cart.Products[i].ID == item.ID {
			cart.Products[i].Quantity += item.Quantity
			return *cart, nil
		}
	}
	cart.Products = append(cart.Products, item)
	return *cart, nil
}

// UpdateCartItem replaces the fields of an existing cart item.
func (m *Mirror) UpdateCartItem(cartID, itemID string, item entities.CartItem) (entities.Cart, error) {
	cart, err := m.findCart(cartID)
	if err != nil {
		return entities.Cart{}, err
	}
	for i := range cart.Products {
		if cart.Products[i].ID == itemID {
			item.ID = itemID
			cart.Products[i] = item
			return *cart, nil
		}
	}
	return entities.Cart{}, entities.ErrCartItemNotFound
}

// RemoveCartItem filters the item out of the cart. Idempotent within an
// existing cart.
func (m *Mirror) RemoveCartItem(cartID, itemID string) (entities.Cart, error) {
	cart, err := m.findCart(cartID)
	if err != nil {
		return entities.Cart{}, err
	}
	kept := cart.Products[:0]
	for _, p := range cart.Products {
		if p.ID != itemID {
			kept = append(kept, p)
		}
	}
	cart.Products = kept
	return *cart, nil
}

// ClearCart empties the cart's item list.
func (m *Mirror) ClearCart(cartID string) (entities.Cart, error) {
	cart, err := m.findCart(cartID)
	if err != nil {
		return entities.Cart{}, err
	}
	cart.Products = []entities.CartItem{}
	return *cart, nil
}
