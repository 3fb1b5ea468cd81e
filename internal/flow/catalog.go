package flow

import (
	apperrors "tradevision/internal/errors"
	"tradevision/internal/ids"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

// Catalog manages the per-mode condition catalog through the state
// container.
type Catalog struct {
	store *store.Store
}

// NewCatalog creates a catalog service.
func NewCatalog(st *store.Store) *Catalog {
	return &Catalog{store: st}
}

// List returns the conditions of one category.
func (c *Catalog) List(mode models.ExecutionMode, condType models.ConditionType) ([]models.Condition, error) {
	if !condType.Valid() {
		return nil, apperrors.NewValidationError("conditionType", condType, "unknown condition type")
	}

	var conditions []models.Condition
	c.store.View(func(state *store.State) {
		conditions = append(conditions, state.Mode(mode).Catalog[condType]...)
	})
	return conditions, nil
}

// Lookup resolves a condition id to its name inside one category.
func (c *Catalog) Lookup(mode models.ExecutionMode, condType models.ConditionType, id string) (models.Condition, error) {
	conditions, err := c.List(mode, condType)
	if err != nil {
		return models.Condition{}, err
	}
	for _, cond := range conditions {
		if cond.ID == id {
			return cond, nil
		}
	}
	return models.Condition{}, apperrors.ErrConditionNotFound
}

// Add appends a named condition to a category and returns its id.
func (c *Catalog) Add(mode models.ExecutionMode, condType models.ConditionType, name string) (string, error) {
	if !condType.Valid() {
		return "", apperrors.NewValidationError("conditionType", condType, "unknown condition type")
	}
	if name == "" {
		return "", apperrors.NewValidationError("name", name, "condition name is required")
	}

	id := ids.New()
	err := c.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		data.Catalog[condType] = append(data.Catalog[condType], models.Condition{ID: id, Name: name})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Remove deletes a condition. A condition referenced by any flow or
// time block stays put; conditions are immutable once referenced.
func (c *Catalog) Remove(mode models.ExecutionMode, condType models.ConditionType, id string) error {
	if !condType.Valid() {
		return apperrors.NewValidationError("conditionType", condType, "unknown condition type")
	}

	return c.store.Apply(func(state *store.State) error {
		if state.ConditionReferenced(mode, id) {
			return apperrors.ErrConditionInUse
		}

		data := state.Mode(mode)
		conditions := data.Catalog[condType]
		for i, cond := range conditions {
			if cond.ID == id {
				data.Catalog[condType] = append(conditions[:i:i], conditions[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrConditionNotFound
	})
}
