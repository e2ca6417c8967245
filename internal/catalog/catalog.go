package catalog

import "strings"

const lowStockThreshold = 10

// Catalog is a read-only product list.
type Catalog struct {
	products []Product
	byID     map[int]int
}

// New builds a catalog from products. Later duplicates of an ID are ignored.
func New(products []Product) *Catalog {
	c := &Catalog{byID: make(map[int]int, len(products))}
	for _, p := range products {
		if _, ok := c.byID[p.ID]; ok {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p.Clone())
	}
	return c
}

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	return New(defaultProducts())
}

// All returns every product in catalog order.
func (c *Catalog) All() []Product {
	return c.filter(func(Product) bool { return true })
}

// ByID looks up a product.
func (c *Catalog) ByID(id int) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx].Clone(), true
}

// Featured returns products flagged for the landing page.
func (c *Catalog) Featured() []Product {
	return c.filter(func(p Product) bool { return p.Featured })
}

// ByCategory returns products in the given category (case-insensitive).
func (c *Catalog) ByCategory(category string) []Product {
	category = strings.TrimSpace(category)
	return c.filter(func(p Product) bool { return strings.EqualFold(p.Category, category) })
}

// LowStock returns products with fewer than ten units left.
func (c *Catalog) LowStock() []Product {
	return c.filter(func(p Product) bool { return p.Stock < lowStockThreshold })
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) filter(keep func(Product) bool) []Product {
	var out []Product
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}
