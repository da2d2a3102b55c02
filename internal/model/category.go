package model

import "strings"

type Category string

const (
	CategoryFiction         = Category("Fiction")
	CategorySciFi           = Category("Sci-Fi")
	CategoryFantasy         = Category("Fantasy")
	CategoryBiography       = Category("Biography")
	CategoryPhilosophy      = Category("Philosophy")
	CategoryOwnershipFree   = Category("Ownership Free")
	CategoryFolklore        = Category("Folklore")
	CategoryScience         = Category("Science")
	CategoryAfricanHeritage = Category("African Heritage")

	// CategoryAll is a selector value, never a book category.
	CategoryAll = Category("All")
)

// Categories is the closed set of book categories in display order.
var Categories = []Category{
	CategoryFiction,
	CategorySciFi,
	CategoryFantasy,
	CategoryBiography,
	CategoryPhilosophy,
	CategoryOwnershipFree,
	CategoryFolklore,
	CategoryScience,
	CategoryAfricanHeritage,
}

func (c Category) IsValid() bool {
	for _, category := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the display names case-insensitively.
// An empty string and "all" both parse to CategoryAll.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, true
	}
	for _, category := range Categories {
		if strings.EqualFold(s, string(category)) {
			return category, true
		}
	}
	return "", false
}
