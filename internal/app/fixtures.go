package app

import (
	"github.com/shopspring/decimal"

	"github.com/briqstore/cart-engine/internal/catalog"
	"github.com/briqstore/cart-engine/internal/coupon"
)

// fixtureProducts is the catalog served when no database is configured.
// The same sets are seeded into PostgreSQL by cmd/seed-db.
func fixtureProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "set-10311", Name: "Orchid Botanical Collection", Price: decimal.RequireFromString("49.99"), Category: "botanical", Image: "/images/sets/10311.jpg", Pieces: 608},
		{ID: "set-10497", Name: "Galaxy Explorer", Price: decimal.RequireFromString("99.99"), Category: "space", Image: "/images/sets/10497.jpg", Pieces: 1254},
		{ID: "set-21330", Name: "Home Alone House", Price: decimal.RequireFromString("299.99"), Category: "ideas", Image: "/images/sets/21330.jpg", Pieces: 3955},
		{ID: "set-31120", Name: "Medieval Castle", Price: decimal.RequireFromString("119.99"), Category: "creator", Image: "/images/sets/31120.jpg", Pieces: 1426},
		{ID: "set-42130", Name: "BMW M 1000 RR", Price: decimal.RequireFromString("229.99"), Category: "technic", Image: "/images/sets/42130.jpg", Pieces: 1920},
		{ID: "set-60380", Name: "Downtown City Center", Price: decimal.RequireFromString("199.99"), Category: "city", Image: "/images/sets/60380.jpg", Pieces: 2214},
		{ID: "set-71411", Name: "The Mighty Bowser", Price: decimal.RequireFromString("269.99"), Category: "super-mario", Image: "/images/sets/71411.jpg", Pieces: 2807},
		{ID: "set-75192", Name: "Millennium Falcon", Price: decimal.RequireFromString("849.99"), Category: "star-wars", Image: "/images/sets/75192.jpg", Pieces: 7541},
		{ID: "set-76240", Name: "Batmobile Tumbler", Price: decimal.RequireFromString("269.99"), Category: "batman", Image: "/images/sets/76240.jpg", Pieces: 2049},
		{ID: "set-10280", Name: "Flower Bouquet", Price: decimal.RequireFromString("59.99"), Category: "botanical", Image: "/images/sets/10280.jpg", Pieces: 756},
	}
}

// fixtureCoupons mirrors the storefront's promo codes.
func fixtureCoupons() []coupon.Rule {
	return []coupon.Rule{
		{
			Code:             "SAVE10",
			Kind:             coupon.KindPercentage,
			Value:            decimal.NewFromInt(10),
			Description:      "10% off orders over $25",
			MinOrderSubtotal: decimal.NewFromInt(25),
		},
		{
			Code:             "SAVE20",
			Kind:             coupon.KindPercentage,
			Value:            decimal.NewFromInt(20),
			Description:      "20% off orders over $50, up to $30",
			MinOrderSubtotal: decimal.NewFromInt(50),
			MaxDiscount:      decimal.NewFromInt(30),
		},
		{
			Code:             "NEWUSER",
			Kind:             coupon.KindFixed,
			Value:            decimal.NewFromInt(15),
			Description:      "$15 off your first order over $30",
			MinOrderSubtotal: decimal.NewFromInt(30),
		},
	}
}
