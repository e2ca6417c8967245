package catalog

// Product is an immutable catalog record. Carts and wishlists reference
// products by ID.
type Product struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Image          string    `json:"image,omitempty"`
	Alt            string    `json:"alt,omitempty"`
	Price          Price     `json:"price"`
	CompareAtPrice *Price    `json:"compareAtPrice,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Rating         float64   `json:"rating,omitempty"`
	Reviews        int       `json:"reviews,omitempty"`
	Images         []Image   `json:"images,omitempty"`
	Nutrition      Nutrition `json:"nutrition,omitzero"`
	Ingredients    string    `json:"ingredients,omitempty"`
	Category       string    `json:"category,omitempty"`
	Stock          int       `json:"stock"`
	Featured       bool      `json:"featured,omitempty"`
}

// Image is one gallery image for a product.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Nutrition holds per-serving facts.
type Nutrition struct {
	Serving  string `json:"serving,omitempty"`
	Calories int    `json:"calories,omitempty"`
	Protein  string `json:"protein,omitempty"`
	Carbs    string `json:"carbs,omitempty"`
	Fat      string `json:"fat,omitempty"`
}

// OnSale reports whether the product has a compare-at price above its price.
func (p Product) OnSale() bool {
	if p.CompareAtPrice == nil {
		return false
	}
	return p.CompareAtPrice.Amount().GreaterThan(p.Price.Amount())
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	dup := p
	if p.Tags != nil {
		dup.Tags = append([]string(nil), p.Tags...)
	}
	if p.Images != nil {
		dup.Images = append([]Image(nil), p.Images...)
	}
	if p.CompareAtPrice != nil {
		compare := *p.CompareAtPrice
		dup.CompareAtPrice = &compare
	}
	return dup
}
