package ledger

import (
	"context"
	"encoding/json"
	"time"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

// RecordActivity appends a free-form audit entry to a workspace's day
// activity log.
func (s *Service) RecordActivity(mode models.ExecutionMode, event string, category models.ActivityCategory, details string) error {
	return s.store.Apply(func(state *store.State) error {
		appendActivity(state, mode, category, event, details)
		return nil
	})
}

// Activities returns a workspace's activity log, optionally including
// archived entries.
func (s *Service) Activities(mode models.ExecutionMode, includeArchived bool) []models.DayActivity {
	var activities []models.DayActivity
	s.store.View(func(state *store.State) {
		for _, a := range state.Mode(mode).Activities {
			if a.IsArchived && !includeArchived {
				continue
			}
			activities = append(activities, a)
		}
	})
	return activities
}

// EditActivity rewrites an entry's details. The entry keeps its
// original serialized state so the edit stays traceable; nothing is
// destroyed.
func (s *Service) EditActivity(mode models.ExecutionMode, id, details string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		for i := range data.Activities {
			if data.Activities[i].ID != id {
				continue
			}

			if !data.Activities[i].IsEdited {
				original, _ := json.Marshal(data.Activities[i])
				data.Activities[i].OriginalState = string(original)
			}
			data.Activities[i].Details = details
			data.Activities[i].IsEdited = true
			return nil
		}
		return apperrors.ErrActivityNotFound
	})
}

// ArchiveActivities flags every entry older than the cutoff as archived
// and copies it into the sqlite archive. Entries stay in the snapshot;
// archiving is a flag, not a delete.
func (s *Service) ArchiveActivities(ctx context.Context, mode models.ExecutionMode, archive *store.ActivityArchive, before time.Time) (int, error) {
	var toArchive []models.DayActivity
	s.store.View(func(state *store.State) {
		for _, a := range state.Mode(mode).Activities {
			if a.IsArchived || !a.Timestamp.Before(before) {
				continue
			}
			a.IsArchived = true
			toArchive = append(toArchive, a)
		}
	})
	if len(toArchive) == 0 {
		return 0, nil
	}

	// The sqlite copy lands before any snapshot flag flips. A failed
	// write leaves every entry unflagged and eligible for retry.
	if err := archive.Archive(ctx, mode, toArchive); err != nil {
		return 0, apperrors.Wrap(err, "writing activity archive")
	}

	archived := make(map[string]bool, len(toArchive))
	for _, a := range toArchive {
		archived[a.ID] = true
	}
	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		for i := range data.Activities {
			if archived[data.Activities[i].ID] {
				data.Activities[i].IsArchived = true
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(toArchive), nil
}
