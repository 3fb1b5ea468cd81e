package flow

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

func newTestCatalog(t *testing.T) (*Catalog, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return NewCatalog(st), st
}

func TestCatalogAddListLookup(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	id, err := catalog.Add(models.ModeReal, models.ConditionDayType, "Trending Day")
	require.NoError(t, err)

	conditions, err := catalog.List(models.ModeReal, models.ConditionDayType)
	require.NoError(t, err)
	require.Len(t, conditions, 1)
	assert.Equal(t, "Trending Day", conditions[0].Name)

	got, err := catalog.Lookup(models.ModeReal, models.ConditionDayType, id)
	require.NoError(t, err)
	assert.Equal(t, "Trending Day", got.Name)

	// Categories are independent namespaces.
	_, err = catalog.Lookup(models.ModeReal, models.ConditionIBBreak, id)
	assert.ErrorIs(t, err, apperrors.ErrConditionNotFound)
}

func TestCatalogValidation(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	_, err := catalog.Add(models.ModeReal, "WEATHER", "Sunny")
	assert.Error(t, err)

	_, err = catalog.Add(models.ModeReal, models.ConditionDayType, "")
	assert.Error(t, err)

	_, err = catalog.List(models.ModeReal, "WEATHER")
	assert.Error(t, err)
}

func TestCatalogRemove(t *testing.T) {
	catalog, _ := newTestCatalog(t)

	id, err := catalog.Add(models.ModeReal, models.ConditionDayType, "Trending Day")
	require.NoError(t, err)

	require.NoError(t, catalog.Remove(models.ModeReal, models.ConditionDayType, id))
	err = catalog.Remove(models.ModeReal, models.ConditionDayType, id)
	assert.ErrorIs(t, err, apperrors.ErrConditionNotFound)
}

func TestCatalogRemoveBlockedWhileReferenced(t *testing.T) {
	catalog, st := newTestCatalog(t)

	id, err := catalog.Add(models.ModeReal, models.ConditionDayType, "Trending Day")
	require.NoError(t, err)

	err = st.Apply(func(state *store.State) error {
		data := state.Mode(models.ModeReal)
		data.Flows = append(data.Flows, models.TradingFlow{
			ID:         "f1",
			Name:       "Trend Break",
			Conditions: []models.FlowCondition{condition(models.ConditionDayType, id)},
		})
		return nil
	})
	require.NoError(t, err)

	err = catalog.Remove(models.ModeReal, models.ConditionDayType, id)
	assert.ErrorIs(t, err, apperrors.ErrConditionInUse)

	// Dropping the referencing flow unblocks the removal.
	require.NoError(t, st.Apply(func(state *store.State) error {
		state.Mode(models.ModeReal).Flows = nil
		return nil
	}))
	assert.NoError(t, catalog.Remove(models.ModeReal, models.ConditionDayType, id))
}

func TestCatalogRemoveBlockedByScheduleReference(t *testing.T) {
	catalog, st := newTestCatalog(t)

	id, err := catalog.Add(models.ModeReal, models.ConditionDayType, "Trending Day")
	require.NoError(t, err)

	err = st.Apply(func(state *store.State) error {
		data := state.Mode(models.ModeReal)
		data.RecurringBlocks = append(data.RecurringBlocks,
			confirmedBlock("b1", "09:15", models.ConditionDayType, id))
		return nil
	})
	require.NoError(t, err)

	err = catalog.Remove(models.ModeReal, models.ConditionDayType, id)
	assert.ErrorIs(t, err, apperrors.ErrConditionInUse)
}
