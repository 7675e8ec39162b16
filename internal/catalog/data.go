package catalog

// DefaultVendors is the built-in vendor directory.
func DefaultVendors() []Vendor {
	return []Vendor{
		{ID: "vnd-adire-house", Name: "Adire House", City: "Abeokuta", Rating: 4.7},
		{ID: "vnd-naija-gadgets", Name: "Naija Gadgets", City: "Lagos", Rating: 4.3},
		{ID: "vnd-sahel-naturals", Name: "Sahel Naturals", City: "Kano", Rating: 4.8},
		{ID: "vnd-delta-kitchen", Name: "Delta Kitchen Supplies", City: "Warri", Rating: 4.1},
	}
}

// DefaultProducts is the built-in product catalog.
func DefaultProducts() []Product {
	return []Product{
		{
			ID: "sku-ankara-tote", Slug: "ankara-print-tote-bag",
			Name: "Ankara Print Tote Bag", Category: "fashion",
			VendorID: "vnd-adire-house", VendorName: "Adire House",
			Description: "Handmade tote with bold ankara patterns, cotton lining.",
			Price:       450000, OriginalPrice: 600000, DiscountPercent: 25,
			Rating: 4.6, ReviewCount: 128,
		},
		{
			ID: "sku-adire-scarf", Slug: "indigo-adire-scarf",
			Name: "Indigo Adire Scarf", Category: "fashion",
			VendorID: "vnd-adire-house", VendorName: "Adire House",
			Description: "Hand-dyed indigo scarf from Abeokuta workshops.",
			Price:       320000,
			Rating:      4.9, ReviewCount: 86,
		},
		{
			ID: "sku-power-bank", Slug: "20000mah-power-bank",
			Name: "20000mAh Power Bank", Category: "electronics",
			VendorID: "vnd-naija-gadgets", VendorName: "Naija Gadgets",
			Description: "Dual-port fast charge power bank with LED display.",
			Price:       1850000, OriginalPrice: 2200000, DiscountPercent: 15,
			Rating: 4.2, ReviewCount: 341,
		},
		{
			ID: "sku-earbuds-x2", Slug: "wireless-earbuds-x2",
			Name: "Wireless Earbuds X2", Category: "electronics",
			VendorID: "vnd-naija-gadgets", VendorName: "Naija Gadgets",
			Description: "Bluetooth 5.3 earbuds with charging case.",
			Price:       1200000,
			Rating:      3.9, ReviewCount: 57,
		},
		{
			ID: "sku-shea-butter", Slug: "raw-shea-butter-500g",
			Name: "Raw Shea Butter 500g", Category: "beauty",
			VendorID: "vnd-sahel-naturals", VendorName: "Sahel Naturals",
			Description: "Unrefined grade A shea butter from northern cooperatives.",
			Price:       280000,
			Rating:      4.8, ReviewCount: 412,
		},
		{
			ID: "sku-hibiscus-tea", Slug: "dried-hibiscus-zobo-250g",
			Name: "Dried Hibiscus (Zobo) 250g", Category: "groceries",
			VendorID: "vnd-sahel-naturals", VendorName: "Sahel Naturals",
			Description: "Sun-dried hibiscus petals for zobo and infusions.",
			Price:       150000,
			Rating:      4.5, ReviewCount: 203,
		},
		{
			ID: "sku-cast-iron-pot", Slug: "cast-iron-cooking-pot-5l",
			Name: "Cast Iron Cooking Pot 5L", Category: "home",
			VendorID: "vnd-delta-kitchen", VendorName: "Delta Kitchen Supplies",
			Description: "Heavy cast iron pot, even heat for party jollof.",
			Price:       2400000, OriginalPrice: 2800000, DiscountPercent: 14,
			Rating: 4.4, ReviewCount: 95,
		},
		{
			ID: "sku-spice-rack", Slug: "rotating-spice-rack-16",
			Name: "Rotating Spice Rack (16 jars)", Category: "home",
			VendorID: "vnd-delta-kitchen", VendorName: "Delta Kitchen Supplies",
			Description: "Countertop carousel with sixteen labelled jars.",
			Price:       950000,
			Rating:      4.0, ReviewCount: 44,
		},
	}
}

// Default builds the catalog from the built-in data. It panics on
// invalid seed data, which is a programming error.
func Default() *Catalog {
	c, err := New(DefaultProducts(), DefaultVendors())
	if err != nil {
		panic(err)
	}
	return c
}
