package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "finledger/internal/errors"
	"finledger/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category, optionally under an existing parent.
func (s *categoryService) CreateCategory(name string, parentID *uint) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	// Sibling names must be unique, including among the root categories.
	dup := s.db.Model(&models.Category{}).Where("name = ?", name)
	if parentID != nil {
		dup = dup.Where("parent_id = ?", *parentID)
	} else {
		dup = dup.Where("parent_id IS NULL")
	}
	var count int64
	if err := dup.Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategoryName
	}

	if parentID != nil {
		var parent models.Category
		if err := s.db.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	category := &models.Category{
		Name:     name,
		ParentID: parentID,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetCategories retrieves all categories in the taxonomy.
func (s *categoryService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID.
func (s *categoryService) GetCategoryByID(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory renames a category and/or moves it under a new parent.
func (s *categoryService) UpdateCategory(categoryID uint, name string, parentID *uint) (*models.Category, error) {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if parentID != nil {
		if *parentID == categoryID {
			return nil, apperrors.ErrSelfParentCategory
		}
		if err := s.ensureNotDescendant(categoryID, *parentID); err != nil {
			return nil, err
		}
		updates["parent_id"] = parentID
	}

	effectiveName := category.Name
	nameChanged := name != "" && name != category.Name
	if nameChanged {
		effectiveName = name
		updates["name"] = name
	}
	effectiveParent := category.ParentID
	parentChanged := parentID != nil && (category.ParentID == nil || *category.ParentID != *parentID)
	if parentChanged {
		effectiveParent = parentID
	}

	// A rename and a move both land the category in a sibling group, so the
	// uniqueness check runs against the effective name and parent whenever
	// either changes.
	if nameChanged || parentChanged {
		dup := s.db.Model(&models.Category{}).
			Where("name = ? AND id <> ?", effectiveName, categoryID)
		if effectiveParent != nil {
			dup = dup.Where("parent_id = ?", *effectiveParent)
		} else {
			dup = dup.Where("parent_id IS NULL")
		}
		var count int64
		if err := dup.Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateCategoryName
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// ensureNotDescendant walks the ancestor chain of the proposed parent and
// fails when it passes through categoryID, which would close a cycle.
func (s *categoryService) ensureNotDescendant(categoryID, parentID uint) error {
	current := parentID
	for {
		var parent models.Category
		if err := s.db.First(&parent, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if parent.ID == categoryID {
			return apperrors.ErrCategoryCycle
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}

// DeleteCategory removes a category. Deletion is refused, never cascaded,
// while the category still owns children, transactions, budgets, or
// recurring transactions.
func (s *categoryService) DeleteCategory(categoryID uint) error {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return err
	}

	dependents := []struct {
		model interface{}
		where string
	}{
		{&models.Category{}, "parent_id = ?"},
		{&models.Transaction{}, "category_id = ?"},
		{&models.Budget{}, "category_id = ?"},
		{&models.RecurringTransaction{}, "category_id = ?"},
	}
	for _, d := range dependents {
		var count int64
		if err := s.db.Model(d.model).Where(d.where, categoryID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrCategoryHasDependents
		}
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TreeWithTotals builds the two-level category tree with per-node totals
// for the user's transactions, restricted to the optional date window.
// Every child's totals are added into its parent's totals, so a parent
// always reports its own direct activity plus all of its children's.
// Uncategorized transactions are totaled separately and never attached to
// a tree node.
func (s *categoryService) TreeWithTotals(userID uint, startDate, endDate *time.Time) (*CategoryTree, error) {
	query := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if startDate != nil {
		query = query.Where("date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("date <= ?", *endDate)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[uint]CategoryTotals)
	var uncategorized CategoryTotals
	for _, tx := range transactions {
		t := &uncategorized
		if tx.CategoryID != nil {
			ct := totals[*tx.CategoryID]
			t = &ct
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			t.Income += tx.Amount
		case models.TransactionTypeExpense:
			t.Expense += tx.Amount
		}
		t.Count++
		if tx.CategoryID != nil {
			totals[*tx.CategoryID] = *t
		}
	}

	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	tree := &CategoryTree{Roots: []CategoryTreeNode{}, Uncategorized: uncategorized}
	for _, parent := range categories {
		if parent.ParentID != nil {
			continue
		}
		node := CategoryTreeNode{
			ID:     parent.ID,
			Name:   parent.Name,
			Totals: totals[parent.ID],
		}
		for _, child := range categories {
			if child.ParentID == nil || *child.ParentID != parent.ID {
				continue
			}
			childNode := CategoryTreeNode{
				ID:       child.ID,
				Name:     child.Name,
				ParentID: child.ParentID,
				Totals:   totals[child.ID],
			}
			node.Totals.Add(childNode.Totals)
			node.Children = append(node.Children, childNode)
		}
		tree.Roots = append(tree.Roots, node)
	}

	return tree, nil
}

// Merge reassigns every transaction, budget, and recurring transaction that
// references the source category to the target category, then deletes the
// source. When the source has children they move under the target, so the
// target must be a root and must not already have a child with any of their
// names. The reassignments and the delete commit or roll back as one unit;
// a partial merge would leave historical records pointing at a vanished
// category.
func (s *categoryService) Merge(sourceID, targetID uint) error {
	if sourceID == targetID {
		return apperrors.ErrSameCategoryMerge
	}

	source, err := s.GetCategoryByID(sourceID)
	if err != nil {
		return err
	}
	target, err := s.GetCategoryByID(targetID)
	if err != nil {
		return err
	}

	// Merging a category into its own descendant would orphan the target's
	// lineage once the source is deleted.
	if err := s.ensureNotDescendant(sourceID, targetID); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCategoryCycle.Code {
			return apperrors.ErrMergeIntoDescendant
		}
		return err
	}

	// Reparenting the source's children must keep the tree two levels deep
	// and the sibling names under the target unique.
	var children []models.Category
	if err := s.db.Where("parent_id = ?", sourceID).Find(&children).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(children) > 0 {
		if target.ParentID != nil {
			return apperrors.ErrMergeTargetNotRoot
		}
		names := make([]string, len(children))
		for i, child := range children {
			names[i] = child.Name
		}
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("parent_id = ? AND name IN ?", targetID, names).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateCategoryName
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		reassignments := []interface{}{
			&models.Transaction{},
			&models.Budget{},
			&models.RecurringTransaction{},
		}
		for _, model := range reassignments {
			if err := tx.Model(model).
				Where("category_id = ?", sourceID).
				Update("category_id", targetID).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		// Children of the source are reparented to the target so the tree
		// stays two levels deep and no child is orphaned.
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", sourceID).
			Update("parent_id", targetID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(source).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
