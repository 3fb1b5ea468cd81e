// Package schedule resolves and confirms the per-day time-block
// checklist.
package schedule

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/logging"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

// EffectiveBlocks resolves the block list for a date: the daily plan if
// one exists, else the recurring template. Blocks come back ordered by
// scheduled time.
func EffectiveBlocks(data *store.ModeData, dateKey string) []models.TimeBlock {
	var blocks []models.TimeBlock
	if plan, ok := data.DailyPlans[dateKey]; ok {
		blocks = append(blocks, plan.Blocks...)
	} else {
		for _, b := range data.RecurringBlocks {
			if b.IsRecurring {
				blocks = append(blocks, b)
			}
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Time < blocks[j].Time })
	return blocks
}

// DueBlocks returns the blocks whose scheduled time has passed for the
// selected date and which carry no confirmation for that date yet.
// For past dates every unconfirmed block is due; for future dates none.
func DueBlocks(data *store.ModeData, dateKey string, now time.Time) []models.TimeBlock {
	nowKey := now.Format(models.DateKeyLayout)
	if dateKey > nowKey {
		return nil
	}
	nowClock := now.Format(models.BlockTimeLayout)

	var due []models.TimeBlock
	for _, b := range EffectiveBlocks(data, dateKey) {
		if b.ConfirmedFor(dateKey) {
			continue
		}
		if dateKey < nowKey || b.Time <= nowClock {
			due = append(due, b)
		}
	}
	return due
}

// AlarmDue reports whether a block's alarm should fire at the given
// instant: alarm enabled, unconfirmed for today and the scheduled
// time-of-day matches the current minute. The caller evaluates this
// once per tick.
func AlarmDue(b models.TimeBlock, now time.Time) bool {
	if !b.IsAlarmOn {
		return false
	}
	if b.ConfirmedFor(now.Format(models.DateKeyLayout)) {
		return false
	}
	return b.Time == now.Format(models.BlockTimeLayout)
}

// Service applies schedule mutations through the state container.
type Service struct {
	store  *store.Store
	logger zerolog.Logger
}

// NewService creates a schedule service.
func NewService(st *store.Store, logger zerolog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Confirm records the as-observed condition for a block on a date. The
// override lands in the recurring template record and in the daily-plan
// copy when one exists, inside a single state transaction, so the two
// sources cannot diverge.
func (s *Service) Confirm(mode models.ExecutionMode, dateKey, blockID, conditionID string) error {
	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)

		found := false
		for i := range data.RecurringBlocks {
			if data.RecurringBlocks[i].ID != blockID {
				continue
			}
			setOverride(&data.RecurringBlocks[i], dateKey, conditionID)
			found = true
		}

		if plan, ok := data.DailyPlans[dateKey]; ok {
			for i := range plan.Blocks {
				if plan.Blocks[i].ID != blockID {
					continue
				}
				setOverride(&plan.Blocks[i], dateKey, conditionID)
				found = true
			}
		}

		if !found {
			return apperrors.ErrBlockNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.LogConfirmation(s.logger, blockID, dateKey, conditionID)
	return nil
}

// Unconfirm removes a block's confirmation for a date from both the
// template and the daily-plan copy.
func (s *Service) Unconfirm(mode models.ExecutionMode, dateKey, blockID string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)

		found := false
		for i := range data.RecurringBlocks {
			if data.RecurringBlocks[i].ID == blockID {
				delete(data.RecurringBlocks[i].DailyOverrides, dateKey)
				found = true
			}
		}
		if plan, ok := data.DailyPlans[dateKey]; ok {
			for i := range plan.Blocks {
				if plan.Blocks[i].ID == blockID {
					delete(plan.Blocks[i].DailyOverrides, dateKey)
					found = true
				}
			}
		}

		if !found {
			return apperrors.ErrBlockNotFound
		}
		return nil
	})
}

// AddBlock adds a block. Recurring blocks join the template; ad hoc
// blocks require a daily plan for the date and only exist inside it.
func (s *Service) AddBlock(mode models.ExecutionMode, block models.TimeBlock, dateKey string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)

		if block.DailyOverrides == nil {
			block.DailyOverrides = make(map[string]string)
		}

		if block.IsRecurring {
			data.RecurringBlocks = append(data.RecurringBlocks, block)
			return nil
		}

		plan, ok := data.DailyPlans[dateKey]
		if !ok {
			plan = &models.DailyPlan{Date: dateKey, Blocks: materializeTemplate(data)}
			data.DailyPlans[dateKey] = plan
		}
		plan.Blocks = append(plan.Blocks, block)
		return nil
	})
}

// RemoveBlock deletes a block from the recurring template and, when a
// daily plan exists for the date, from that plan's copy as well.
func (s *Service) RemoveBlock(mode models.ExecutionMode, dateKey, blockID string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)

		found := false
		for i, b := range data.RecurringBlocks {
			if b.ID == blockID {
				data.RecurringBlocks = append(data.RecurringBlocks[:i:i], data.RecurringBlocks[i+1:]...)
				found = true
				break
			}
		}
		if plan, ok := data.DailyPlans[dateKey]; ok {
			for i, b := range plan.Blocks {
				if b.ID == blockID {
					plan.Blocks = append(plan.Blocks[:i:i], plan.Blocks[i+1:]...)
					found = true
					break
				}
			}
		}

		if !found {
			return apperrors.ErrBlockNotFound
		}
		return nil
	})
}

// materializeTemplate copies the recurring template into a fresh daily
// plan so an ad hoc block lands next to the day's scheduled checkpoints.
func materializeTemplate(data *store.ModeData) []models.TimeBlock {
	var blocks []models.TimeBlock
	for _, b := range data.RecurringBlocks {
		if !b.IsRecurring {
			continue
		}
		copied := b
		copied.DailyOverrides = make(map[string]string, len(b.DailyOverrides))
		for k, v := range b.DailyOverrides {
			copied.DailyOverrides[k] = v
		}
		blocks = append(blocks, copied)
	}
	return blocks
}

func setOverride(b *models.TimeBlock, dateKey, conditionID string) {
	if b.DailyOverrides == nil {
		b.DailyOverrides = make(map[string]string)
	}
	b.DailyOverrides[dateKey] = conditionID
}
