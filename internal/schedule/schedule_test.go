package schedule

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

const testDate = "2025-06-02"

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return NewService(st, zerolog.Nop())
}

func templateBlock(id, at string) models.TimeBlock {
	return models.TimeBlock{
		ID:             id,
		Time:           at,
		ConditionType:  models.ConditionDayType,
		DailyOverrides: map[string]string{},
		IsRecurring:    true,
	}
}

func TestEffectiveBlocksUsesTemplateWithoutPlan(t *testing.T) {
	data := store.NewModeData()
	data.RecurringBlocks = []models.TimeBlock{
		templateBlock("b2", "10:30"),
		templateBlock("b1", "09:15"),
		{ID: "adhoc", Time: "11:00"}, // not recurring, not part of the template
	}

	blocks := EffectiveBlocks(data, testDate)
	require.Len(t, blocks, 2)
	assert.Equal(t, "b1", blocks[0].ID)
	assert.Equal(t, "b2", blocks[1].ID)
}

func TestEffectiveBlocksPrefersDailyPlan(t *testing.T) {
	data := store.NewModeData()
	data.RecurringBlocks = []models.TimeBlock{templateBlock("b1", "09:15")}
	data.DailyPlans[testDate] = &models.DailyPlan{
		Date:   testDate,
		Blocks: []models.TimeBlock{templateBlock("p1", "10:00")},
	}

	blocks := EffectiveBlocks(data, testDate)
	require.Len(t, blocks, 1)
	assert.Equal(t, "p1", blocks[0].ID)
}

func TestDueBlocks(t *testing.T) {
	data := store.NewModeData()
	confirmed := templateBlock("b1", "09:15")
	confirmed.DailyOverrides[testDate] = "c1"
	data.RecurringBlocks = []models.TimeBlock{
		confirmed,
		templateBlock("b2", "10:30"),
		templateBlock("b3", "15:00"),
	}

	now := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)

	due := DueBlocks(data, testDate, now)
	require.Len(t, due, 1)
	assert.Equal(t, "b2", due[0].ID)

	// Past date: every unconfirmed block is due.
	pastDue := DueBlocks(data, "2025-06-01", now)
	assert.Len(t, pastDue, 3)

	// Future date: nothing is due.
	assert.Empty(t, DueBlocks(data, "2025-06-03", now))
}

func TestAlarmDue(t *testing.T) {
	block := templateBlock("b1", "10:30")
	block.IsAlarmOn = true

	at := time.Date(2025, 6, 2, 10, 30, 45, 0, time.UTC)
	assert.True(t, AlarmDue(block, at))

	// Wrong minute.
	assert.False(t, AlarmDue(block, at.Add(time.Minute)))

	// Alarm off.
	off := block
	off.IsAlarmOn = false
	assert.False(t, AlarmDue(off, at))

	// Already confirmed today.
	done := templateBlock("b2", "10:30")
	done.IsAlarmOn = true
	done.DailyOverrides[at.Format(models.DateKeyLayout)] = "c1"
	assert.False(t, AlarmDue(done, at))
}

func TestConfirmWritesTemplateAndPlanTogether(t *testing.T) {
	svc := newTestService(t)

	block := templateBlock("b1", "09:15")
	require.NoError(t, svc.AddBlock(models.ModeReal, block, testDate))
	// Materialize a daily plan holding a copy of the template.
	adhoc := models.TimeBlock{ID: "adhoc", Time: "11:00", ConditionType: models.ConditionIBBreak}
	require.NoError(t, svc.AddBlock(models.ModeReal, adhoc, testDate))

	require.NoError(t, svc.Confirm(models.ModeReal, testDate, "b1", "c1"))

	svc.store.View(func(state *store.State) {
		data := state.Mode(models.ModeReal)
		require.Len(t, data.RecurringBlocks, 1)
		assert.Equal(t, "c1", data.RecurringBlocks[0].DailyOverrides[testDate])

		plan := data.DailyPlans[testDate]
		require.NotNil(t, plan)
		for _, b := range plan.Blocks {
			if b.ID == "b1" {
				assert.Equal(t, "c1", b.DailyOverrides[testDate])
			}
		}
	})
}

func TestConfirmUnknownBlock(t *testing.T) {
	svc := newTestService(t)
	err := svc.Confirm(models.ModeReal, testDate, "missing", "c1")
	assert.ErrorIs(t, err, apperrors.ErrBlockNotFound)
}

func TestUnconfirmClearsBothCopies(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.AddBlock(models.ModeReal, templateBlock("b1", "09:15"), testDate))
	require.NoError(t, svc.Confirm(models.ModeReal, testDate, "b1", "c1"))
	require.NoError(t, svc.Unconfirm(models.ModeReal, testDate, "b1"))

	svc.store.View(func(state *store.State) {
		data := state.Mode(models.ModeReal)
		assert.False(t, data.RecurringBlocks[0].ConfirmedFor(testDate))
	})
}

func TestAddAdhocBlockMaterializesTemplate(t *testing.T) {
	svc := newTestService(t)

	template := templateBlock("b1", "09:15")
	template.DailyOverrides["2025-05-30"] = "old"
	require.NoError(t, svc.AddBlock(models.ModeReal, template, testDate))

	adhoc := models.TimeBlock{ID: "adhoc", Time: "11:00", ConditionType: models.ConditionIBBreak}
	require.NoError(t, svc.AddBlock(models.ModeReal, adhoc, testDate))

	svc.store.View(func(state *store.State) {
		data := state.Mode(models.ModeReal)
		plan := data.DailyPlans[testDate]
		require.NotNil(t, plan)
		require.Len(t, plan.Blocks, 2)
		assert.Equal(t, "b1", plan.Blocks[0].ID)
		assert.Equal(t, "old", plan.Blocks[0].DailyOverrides["2025-05-30"])
		assert.Equal(t, "adhoc", plan.Blocks[1].ID)

		// The ad hoc block never lands in the template.
		assert.Len(t, data.RecurringBlocks, 1)
	})
}

func TestRemoveBlock(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.AddBlock(models.ModeReal, templateBlock("b1", "09:15"), testDate))
	require.NoError(t, svc.RemoveBlock(models.ModeReal, testDate, "b1"))

	svc.store.View(func(state *store.State) {
		assert.Empty(t, state.Mode(models.ModeReal).RecurringBlocks)
	})

	err := svc.RemoveBlock(models.ModeReal, testDate, "b1")
	assert.ErrorIs(t, err, apperrors.ErrBlockNotFound)
}
