package toolkit

// Static request bodies sent by the checker. Nothing here is persisted
// between runs; the server assigns identities.

func CategoryFixture() CategoryPayload {
	return CategoryPayload{
		Name:        "Бродерия",
		Slug:        "broderia",
		Description: "Бродирани продукти и аксесоари",
	}
}

// ProductFixture builds the comprehensive product. coverURL is reused
// verbatim for the cover and the gallery; an empty coverURL sends a null
// cover and an empty gallery.
func ProductFixture(coverURL string) ProductPayload {
	p := ProductPayload{
		Name:        "Бродирана Тениска Premium",
		Description: "Висококачествена бродирана тениска с уникален дизайн",
		SKU:         "TSHIRT-PREM-001",

		Gallery: []string{},

		Price:          45.00,
		CompareAtPrice: 55.00,
		SalePrice:      40.00,
		CostPrice:      25.00,
		TaxClass:       "standard",

		Inventory: Inventory{
			Amount:              50,
			Status:              "in_stock",
			MinQuantity:         1,
			MaxQuantity:         100,
			AllowBackorder:      true,
			BackorderMessage:    "Ще бъде доставен в рамките на 7-10 работни дни",
			StockAlertThreshold: 10,
		},
		Shipping: Shipping{
			Weight: 0.3,
			Dimensions: Dimensions{
				Length: 30,
				Width:  25,
				Height: 2,
				Unit:   "cm",
			},
			Class: "standard",
		},

		Category:   "Бродерия",
		Tags:       []string{"тениска", "бродерия", "premium", "мода"},
		Status:     "active",
		Visibility: "public",
		Featured:   true,
		Badges:     []string{"Нов", "Популярен"},

		SEO: SEO{
			Title:       "Бродирана Тениска Premium - Уникален Дизайн",
			Description: "Висококачествена бродирана тениска с уникален дизайн. Перфектна за всеки повод.",
			Slug:        "brodirana-teniska-premium",
		},
		B2B: B2B{
			MOQ: 5,
			BulkPricing: []BulkPrice{
				{Quantity: 10, Price: 40.00},
				{Quantity: 50, Price: 35.00},
			},
			LeadTime: "5-7 работни дни",
			CustomFields: map[string]string{
				"supplier": "StoryBox BG",
				"warranty": "6 месеца",
			},
		},
		Variants: []Variant{
			{
				ID:  "variant-1",
				SKU: "TSHIRT-PREM-001-RED-M",
				Attributes: map[string]string{
					"color":    "Червен",
					"material": "Памук",
					"size":     "M",
				},
				Inventory: Inventory{Amount: 15, Status: "in_stock"},
				Price:     45.00,
			},
		},
		RelatedProducts: []string{},
	}

	if coverURL != "" {
		cover := coverURL
		p.CoverImage = &cover
		p.Gallery = []string{coverURL}
	}
	return p
}

func ProductUpdateFixture() ProductUpdatePayload {
	return ProductUpdatePayload{
		Name:        "Бродирана Тениска Premium - Обновена",
		Description: "Обновено описание на продукта",
		Price:       50.00,
		Inventory:   Inventory{Amount: 75, Status: "in_stock"},
	}
}
