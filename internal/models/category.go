package models

import (
	"fmt"
	"strings"
)

// Category is the fixed classification of a discovery. The backend only
// accepts the enumerated values below, so the client constrains input
// before submission.
type Category string

const (
	CategoryPhysics    Category = "Physics"
	CategoryAstronomy  Category = "Astronomy"
	CategoryGeology    Category = "Geology"
	CategoryPhilosophy Category = "Philosophy"
)

// Categories returns the allowed categories in display order.
func Categories() []Category {
	return []Category{CategoryPhysics, CategoryAstronomy, CategoryGeology, CategoryPhilosophy}
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPhysics, CategoryAstronomy, CategoryGeology, CategoryPhilosophy:
		return true
	}
	return false
}

// ParseCategory resolves user input to a Category, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
