package catalog

func comparePrice(amount float64) *Price {
	p := NewPrice(amount)
	return &p
}

func gallery(url, name string) []Image {
	return []Image{
		{URL: url, Alt: name + " - Front view"},
		{URL: url, Alt: name + " - Side view"},
		{URL: url, Alt: name + " - Close-up"},
	}
}

func defaultProducts() []Product {
	return []Product{
		{
			ID:             1,
			Name:           "Himalayan Salt Foxnuts",
			Description:    "Lightly roasted foxnuts seasoned with pink Himalayan salt for a perfect savory crunch",
			Image:          "/products/salt-foxnuts.jpg",
			Alt:            "Himalayan Salt Foxnuts in a wooden bowl",
			Price:          NewPrice(12.99),
			CompareAtPrice: comparePrice(15.99),
			Tags:           []string{"Organic", "Gluten-Free", "Vegan", "Low-Calorie"},
			Rating:         4.8,
			Reviews:        127,
			Images:         gallery("/products/salt-foxnuts.jpg", "Himalayan Salt Foxnuts"),
			Nutrition:      Nutrition{Serving: "30g", Calories: 110, Protein: "4g", Carbs: "18g", Fat: "3g"},
			Ingredients:    "Organic Foxnuts, Pink Himalayan Salt, Olive Oil",
			Category:       "Savory",
			Stock:          45,
			Featured:       true,
		},
		{
			ID:             2,
			Name:           "Chili Garlic Foxnuts",
			Description:    "Spicy and aromatic blend of red chili and roasted garlic on crispy foxnuts",
			Image:          "/products/chili-garlic.jpg",
			Alt:            "Chili Garlic Foxnuts with spices",
			Price:          NewPrice(13.99),
			CompareAtPrice: comparePrice(16.99),
			Tags:           []string{"Organic", "Gluten-Free", "Vegetarian", "Spicy"},
			Rating:         4.9,
			Reviews:        98,
			Images:         gallery("/products/chili-garlic.jpg", "Chili Garlic Foxnuts"),
			Nutrition:      Nutrition{Serving: "30g", Calories: 115, Protein: "4g", Carbs: "19g", Fat: "3.5g"},
			Ingredients:    "Organic Foxnuts, Red Chili Powder, Garlic Powder, Olive Oil, Sea Salt",
			Category:       "Savory",
			Stock:          32,
			Featured:       true,
		},
		{
			ID:             3,
			Name:           "Caramel Crunch Foxnuts",
			Description:    "Sweet and indulgent foxnuts coated with rich organic caramel",
			Image:          "/products/caramel-crunch.jpg",
			Alt:            "Caramel Crunch Foxnuts close-up",
			Price:          NewPrice(14.99),
			CompareAtPrice: comparePrice(17.99),
			Tags:           []string{"Organic", "Gluten-Free", "Vegetarian", "Sweet"},
			Rating:         5.0,
			Reviews:        152,
			Images:         gallery("/products/caramel-crunch.jpg", "Caramel Crunch Foxnuts"),
			Nutrition:      Nutrition{Serving: "30g", Calories: 160, Protein: "3g", Carbs: "22g", Fat: "7g"},
			Ingredients:    "Organic Foxnuts, Organic Cane Sugar, Butter, Vanilla Extract, Sea Salt",
			Category:       "Sweet",
			Stock:          8,
			Featured:       true,
		},
		{
			ID:             4,
			Name:           "Peri Peri Foxnuts",
			Description:    "Fiery African-inspired peri peri spice blend on crunchy foxnuts",
			Image:          "/products/peri-peri.jpg",
			Alt:            "Peri Peri Foxnuts",
			Price:          NewPrice(13.49),
			CompareAtPrice: comparePrice(15.99),
			Tags:           []string{"Organic", "Gluten-Free", "Vegan", "Extra Spicy"},
			Rating:         4.7,
			Reviews:        84,
			Images:         gallery("/products/peri-peri.jpg", "Peri Peri Foxnuts"),
			Nutrition:      Nutrition{Serving: "30g", Calories: 112, Protein: "4g", Carbs: "18g", Fat: "3.2g"},
			Ingredients:    "Organic Foxnuts, Peri Peri Spice Mix, Lemon Juice, Olive Oil",
			Category:       "Savory",
			Stock:          28,
		},
		{
			ID:             5,
			Name:           "Chocolate Delight Foxnuts",
			Description:    "Premium dark chocolate coating over roasted foxnuts - guilt-free indulgence",
			Image:          "/products/chocolate.jpg",
			Alt:            "Chocolate Delight Foxnuts",
			Price:          NewPrice(15.99),
			CompareAtPrice: comparePrice(18.99),
			Tags:           []string{"Organic", "Gluten-Free", "Vegetarian", "Dark Chocolate"},
			Rating:         4.9,
			Reviews:        134,
			Images:         gallery("/products/chocolate.jpg", "Chocolate Delight Foxnuts"),
			Nutrition:      Nutrition{Serving: "30g", Calories: 165, Protein: "3.5g", Carbs: "20g", Fat: "8g"},
			Ingredients:    "Organic Foxnuts, Organic Dark Chocolate (70% Cocoa), Coconut Oil",
			Category:       "Sweet",
			Stock:          19,
		},
		{
			ID:             6,
			Name:           "Tandoori Masala Foxnuts",
			Description:    "Authentic Indian tandoori spices blended perfectly with roasted foxnuts",
			Image:          "/products/tandoori.jpg",
			Alt:            "Tandoori Masala Foxnuts",
			Price:          NewPrice(12.99),
			CompareAtPrice: comparePrice(15.49),
			Tags:           []string{"Organic", "Gluten-Free", "Vegan", "Indian Spice"},
			Rating:         4.8,
			Reviews:        76,
			Images:         gallery("/products/tandoori.jpg", "Tandoori Masala Foxnuts"),
			Nutrition:      Nutrition{Serving: "30g", Calories: 108, Protein: "4g", Carbs: "17g", Fat: "3g"},
			Ingredients:    "Organic Foxnuts, Tandoori Spice Mix (Paprika, Cumin, Coriander), Yogurt Powder, Olive Oil",
			Category:       "Savory",
			Stock:          41,
		},
	}
}
