package flow

import (
	apperrors "tradevision/internal/errors"
	"tradevision/internal/ids"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

// Edges returns all edges of a mode workspace.
func (s *Service) Edges(mode models.ExecutionMode) []models.Edge {
	var edges []models.Edge
	s.store.View(func(state *store.State) {
		edges = append(edges, state.Mode(mode).Edges...)
	})
	return edges
}

// AddEdge stores a new edge and returns its id.
func (s *Service) AddEdge(mode models.ExecutionMode, e models.Edge) (string, error) {
	if e.Name == "" {
		return "", apperrors.NewValidationError("name", e.Name, "edge name is required")
	}

	e.ID = ids.New()
	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		data.Edges = append(data.Edges, e)
		return nil
	})
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

// DeleteEdge removes an edge by id.
func (s *Service) DeleteEdge(mode models.ExecutionMode, id string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		for i, e := range data.Edges {
			if e.ID == id {
				data.Edges = append(data.Edges[:i:i], data.Edges[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrEdgeNotFound
	})
}

// EdgeFlows returns all logical edge flows of a mode workspace.
func (s *Service) EdgeFlows(mode models.ExecutionMode) []models.LogicalEdgeFlow {
	var flows []models.LogicalEdgeFlow
	s.store.View(func(state *store.State) {
		flows = append(flows, state.Mode(mode).EdgeFlows...)
	})
	return flows
}

// AddEdgeFlow stores a new logical edge flow and returns its id.
func (s *Service) AddEdgeFlow(mode models.ExecutionMode, f models.LogicalEdgeFlow) (string, error) {
	if f.Name == "" {
		return "", apperrors.NewValidationError("name", f.Name, "edge flow name is required")
	}

	f.ID = ids.New()
	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		data.EdgeFlows = append(data.EdgeFlows, f)
		return nil
	})
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

// DeleteEdgeFlow removes a logical edge flow by id.
func (s *Service) DeleteEdgeFlow(mode models.ExecutionMode, id string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		for i, f := range data.EdgeFlows {
			if f.ID == id {
				data.EdgeFlows = append(data.EdgeFlows[:i:i], data.EdgeFlows[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrFlowNotFound
	})
}

// Formulas returns all formulas of a mode workspace, optionally
// filtered by type.
func (s *Service) Formulas(mode models.ExecutionMode, ftype models.FormulaType) []models.Formula {
	var formulas []models.Formula
	s.store.View(func(state *store.State) {
		for _, f := range state.Mode(mode).Formulas {
			if ftype != "" && f.Type != ftype {
				continue
			}
			formulas = append(formulas, f)
		}
	})
	return formulas
}

// AddFormula stores a new formula and returns its id.
func (s *Service) AddFormula(mode models.ExecutionMode, f models.Formula) (string, error) {
	if f.Name == "" {
		return "", apperrors.NewValidationError("name", f.Name, "formula name is required")
	}
	switch f.Type {
	case models.FormulaEntry, models.FormulaStopLoss, models.FormulaTarget:
	default:
		return "", apperrors.NewValidationError("type", string(f.Type), "formula type must be ENTRY, STOP_LOSS or TARGET")
	}

	f.ID = ids.New()
	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		data.Formulas = append(data.Formulas, f)
		return nil
	})
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

// DeleteFormula removes a formula by id. A formula referenced by an
// edge entry cannot be removed.
func (s *Service) DeleteFormula(mode models.ExecutionMode, id string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		for _, e := range data.Edges {
			for _, entry := range e.Entries {
				if containsID(entry.EntryFormulaIDs, id) ||
					containsID(entry.StopLossFormulaIDs, id) ||
					containsID(entry.TargetFormulaIDs, id) {
					return apperrors.NewValidationError("id", id, "formula is referenced by edge "+e.Name)
				}
			}
		}
		for i, f := range data.Formulas {
			if f.ID == id {
				data.Formulas = append(data.Formulas[:i:i], data.Formulas[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrFormulaNotFound
	})
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
