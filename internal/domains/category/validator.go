package category

import (
	"context"

	"github.com/google/uuid"
)

// TreeValidator holds the structural checks run before every mutation.
// All three checks are read-only against the repository; the repository
// re-runs the same invariants inside the write transaction.
type TreeValidator struct {
	repo CategoryRepository
}

func NewTreeValidator(repo CategoryRepository) *TreeValidator {
	return &TreeValidator{repo: repo}
}

// ValidateParent resolves the parent category. A nil parentID is valid
// (the category will be a root) and yields a nil parent. A parent that
// cannot be found fails with KindNotFound.
func (v *TreeValidator) ValidateParent(ctx context.Context, parentID *uuid.UUID) (*Category, error) {
	if parentID == nil {
		return nil, nil
	}

	parent, err := v.repo.GetByID(ctx, *parentID)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, Errf(KindNotFound, "category.ValidateParent", "parent category %s not found", parentID)
		}
		return nil, err
	}

	return parent, nil
}

// ValidateDepth computes the depth the new or re-parented category
// would occupy (root = 0) by walking the parent chain upward. The walk
// is an iterative loop with a hard cap: even a pathological stored
// chain terminates within MaxDepth+1 steps, and exceeding the cap is
// reported as KindInvalidHierarchy, never as an endless walk.
func (v *TreeValidator) ValidateDepth(ctx context.Context, parentID *uuid.UUID) (int, error) {
	if parentID == nil {
		return 0, nil
	}

	const op = "category.ValidateDepth"

	steps := 0
	cur := parentID
	for cur != nil {
		steps++
		if steps > MaxDepth {
			return 0, Errf(KindInvalidHierarchy, op, "maximum depth of %d levels exceeded", MaxDepth+1)
		}

		node, err := v.repo.GetByID(ctx, *cur)
		if err != nil {
			if IsKind(err, KindNotFound) {
				return 0, Errf(KindNotFound, op, "parent category %s not found", cur)
			}
			return 0, err
		}
		cur = node.ParentID
	}

	return steps, nil
}

// ValidateNoCycle rejects parent assignments that would close a loop.
// Assigning a category to itself fails with KindSelfReference; assigning
// it to one of its descendants fails with KindCircularReference. Only
// two levels below the new parent are inspected: given the depth
// invariant holds for all existing nodes, a deeper cycle cannot exist.
func (v *TreeValidator) ValidateNoCycle(ctx context.Context, categoryID uuid.UUID, newParentID *uuid.UUID) error {
	if newParentID == nil {
		return nil
	}

	const op = "category.ValidateNoCycle"

	if categoryID == *newParentID {
		return Errf(KindSelfReference, op, "category cannot be its own parent")
	}

	// Walk up from the new parent; if the category shows up in that
	// chain, the new parent is one of its descendants.
	cur := newParentID
	for steps := 0; cur != nil && steps < MaxDepth; steps++ {
		node, err := v.repo.GetByID(ctx, *cur)
		if err != nil {
			if IsKind(err, KindNotFound) {
				return Errf(KindNotFound, op, "parent category %s not found", cur)
			}
			return err
		}

		if node.ParentID != nil && *node.ParentID == categoryID {
			return Errf(KindCircularReference, op, "cannot move category under its own descendant")
		}
		cur = node.ParentID
	}

	return nil
}
