// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Category is the tag attached to every [Credential].
type Category string

const (
	CategorySocial        Category = "social"
	CategoryEmail         Category = "email"
	CategoryBanking       Category = "banking"
	CategoryShopping      Category = "shopping"
	CategoryWork          Category = "work"
	CategoryEntertainment Category = "entertainment"
	CategoryGaming        Category = "gaming"
	CategoryCloud         Category = "cloud"
	CategoryDev           Category = "dev"
	CategoryCrypto        Category = "crypto"
	CategoryHealth        Category = "health"
	CategoryOther         Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategorySocial,
	CategoryEmail,
	CategoryBanking,
	CategoryShopping,
	CategoryWork,
	CategoryEntertainment,
	CategoryGaming,
	CategoryCloud,
	CategoryDev,
	CategoryCrypto,
	CategoryHealth,
	CategoryOther,
}

var categoryNames = map[Category]string{
	CategorySocial:        "Social",
	CategoryEmail:         "Email",
	CategoryBanking:       "Banking",
	CategoryShopping:      "Shopping",
	CategoryWork:          "Work",
	CategoryEntertainment: "Entertainment",
	CategoryGaming:        "Gaming",
	CategoryCloud:         "Cloud",
	CategoryDev:           "Development",
	CategoryCrypto:        "Crypto",
	CategoryHealth:        "Health",
	CategoryOther:         "Other",
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human-readable name of the category.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryOther]
}

// NormalizeCategory maps unknown or empty values to [CategoryOther].
func NormalizeCategory(c Category) Category {
	if c.IsValid() {
		return c
	}
	return CategoryOther
}
