package engine

import "github.com/garyjia/travel-settlement/internal/reference"

// Classifier derives canonical expense-item labels from free-form categories.
type Classifier struct {
	items *reference.ItemTable
}

// NewClassifier creates a classifier over the given expense-item table.
func NewClassifier(items *reference.ItemTable) *Classifier {
	return &Classifier{items: items}
}

// Classify returns the canonical expense-item label for a category.
// Deterministic and total: unknown categories get the default travel label.
func (c *Classifier) Classify(category string) string {
	return c.items.ItemFor(category)
}
