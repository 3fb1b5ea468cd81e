package ledger

import (
	apperrors "tradevision/internal/errors"
	"tradevision/internal/ids"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

// Rules returns the psychology rules of a mode workspace, optionally
// filtered by category.
func (s *Service) Rules(mode models.ExecutionMode, category models.PsychologyRuleCategory) []models.PsychologyRule {
	var rules []models.PsychologyRule
	s.store.View(func(state *store.State) {
		for _, r := range state.Mode(mode).PsychologyRules {
			if category != "" && r.Category != category {
				continue
			}
			rules = append(rules, r)
		}
	})
	return rules
}

// AddRule stores a new psychology rule and returns its id.
func (s *Service) AddRule(mode models.ExecutionMode, text string, category models.PsychologyRuleCategory) (string, error) {
	if text == "" {
		return "", apperrors.NewValidationError("text", text, "rule text is required")
	}
	switch category {
	case models.RuleTechnicalErrors, models.RuleEmotions:
	default:
		return "", apperrors.NewValidationError("category", string(category), "category must be TECHNICAL ERRORS or EMOTIONS")
	}

	rule := models.PsychologyRule{ID: ids.New(), Text: text, Category: category}
	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		data.PsychologyRules = append(data.PsychologyRules, rule)
		return nil
	})
	if err != nil {
		return "", err
	}
	return rule.ID, nil
}

// DeleteRule removes a psychology rule by id.
func (s *Service) DeleteRule(mode models.ExecutionMode, id string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		for i, r := range data.PsychologyRules {
			if r.ID == id {
				data.PsychologyRules = append(data.PsychologyRules[:i:i], data.PsychologyRules[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrRuleNotFound
	})
}
