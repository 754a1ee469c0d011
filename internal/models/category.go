package models

// Category classifies transactions, budgets, and recurring transactions.
// Categories form a shared taxonomy one level deep: a category either has
// no parent (a root) or points at a root. Acyclicity is enforced at write
// time by the category service, not by the schema.
type Category struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	ParentID *uint  `json:"parent_id,omitempty"`

	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
