package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/models"
)

// SnapshotFile is the name of the single state snapshot inside the
// data directory.
const SnapshotFile = "snapshot.json"

// Document is the on-disk and export/import form of the whole state:
// one versioned JSON document with a full collection set per mode plus
// the shared scalar settings.
type Document struct {
	SchemaVersion   int          `json:"schemaVersion"`
	Real            ModeSnapshot `json:"real"`
	Theoretical     ModeSnapshot `json:"theoretical"`
	LongTradeLimit  float64      `json:"longTradeLimit"`
	ShortTradeLimit float64      `json:"shortTradeLimit"`
}

// ModeSnapshot is one mode's collection set in export form. Trades are
// the derived per-ledger arrays; the authoritative records are rebuilt
// on import.
type ModeSnapshot struct {
	Trades          []models.Trade                              `json:"trades"`
	Catalog         map[models.ConditionType][]models.Condition `json:"conditions"`
	RecurringBlocks []models.TimeBlock                          `json:"timeBlocks"`
	DailyPlans      []models.DailyPlan                          `json:"dailyPlans"`
	Flows           []models.TradingFlow                        `json:"tradingFlows"`
	EdgeFlows       []models.LogicalEdgeFlow                    `json:"logicalEdgeFlows"`
	Edges           []models.Edge                               `json:"edges"`
	Formulas        []models.Formula                            `json:"formulas"`
	PsychologyRules []models.PsychologyRule                     `json:"psychologyRules"`
	Orders          []models.LiveOrder                          `json:"liveOrders"`
	Alerts          []models.EntryAlert                         `json:"entryAlerts"`
	Pullbacks       []models.PendingPullbackOrder               `json:"pendingPullbackOrders"`
	Activities      []models.DayActivity                        `json:"dayActivities"`
}

// ToDocument serializes the state into its export form.
func (s *State) ToDocument() *Document {
	doc := &Document{
		SchemaVersion:   SchemaVersion,
		Real:            modeSnapshot(s, models.ModeReal),
		Theoretical:     modeSnapshot(s, models.ModeTheoretical),
		LongTradeLimit:  s.Settings.LongTradeLimit,
		ShortTradeLimit: s.Settings.ShortTradeLimit,
	}
	return doc
}

func modeSnapshot(s *State, mode models.ExecutionMode) ModeSnapshot {
	data := s.Mode(mode)

	plans := make([]models.DailyPlan, 0, len(data.DailyPlans))
	for _, p := range data.DailyPlans {
		plans = append(plans, *p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Date < plans[j].Date })

	return ModeSnapshot{
		Trades:          s.TradesFor(mode),
		Catalog:         data.Catalog,
		RecurringBlocks: data.RecurringBlocks,
		DailyPlans:      plans,
		Flows:           data.Flows,
		EdgeFlows:       data.EdgeFlows,
		Edges:           data.Edges,
		Formulas:        data.Formulas,
		PsychologyRules: data.PsychologyRules,
		Orders:          data.Orders,
		Alerts:          data.Alerts,
		Pullbacks:       data.Pullbacks,
		Activities:      data.Activities,
	}
}

// FromDocument rebuilds a state from its export form. Missing
// collections default to empty, duplicate ids are dropped first-wins
// and the two trade arrays fold back into single authoritative records.
func FromDocument(doc *Document) *State {
	state := NewState()
	state.Settings.LongTradeLimit = doc.LongTradeLimit
	state.Settings.ShortTradeLimit = doc.ShortTradeLimit

	applyModeSnapshot(state, models.ModeReal, doc.Real)
	applyModeSnapshot(state, models.ModeTheoretical, doc.Theoretical)
	return state
}

func applyModeSnapshot(state *State, mode models.ExecutionMode, snap ModeSnapshot) {
	data := state.Mode(mode)

	data.Catalog = snap.Catalog
	if data.Catalog == nil {
		data.Catalog = make(map[models.ConditionType][]models.Condition)
	}
	for condType, conditions := range data.Catalog {
		data.Catalog[condType] = dedupeByID(conditions, func(c models.Condition) string { return c.ID })
	}

	data.RecurringBlocks = dedupeByID(snap.RecurringBlocks, func(b models.TimeBlock) string { return b.ID })
	data.Flows = dedupeByID(snap.Flows, func(f models.TradingFlow) string { return f.ID })
	data.EdgeFlows = dedupeByID(snap.EdgeFlows, func(f models.LogicalEdgeFlow) string { return f.ID })
	data.Edges = dedupeByID(snap.Edges, func(e models.Edge) string { return e.ID })
	data.Formulas = dedupeByID(snap.Formulas, func(f models.Formula) string { return f.ID })
	data.PsychologyRules = dedupeByID(snap.PsychologyRules, func(r models.PsychologyRule) string { return r.ID })
	data.Orders = dedupeByID(snap.Orders, func(o models.LiveOrder) string { return o.ID })
	data.Alerts = dedupeByID(snap.Alerts, func(a models.EntryAlert) string { return a.ID })
	data.Pullbacks = dedupeByID(snap.Pullbacks, func(p models.PendingPullbackOrder) string { return p.ID })
	data.Activities = dedupeByID(snap.Activities, func(a models.DayActivity) string { return a.ID })

	data.DailyPlans = make(map[string]*models.DailyPlan)
	for _, plan := range snap.DailyPlans {
		if _, ok := data.DailyPlans[plan.Date]; ok {
			continue // first occurrence wins
		}
		p := plan
		data.DailyPlans[plan.Date] = &p
	}

	for _, t := range dedupeByID(snap.Trades, func(t models.Trade) string { return t.ID }) {
		rec, ok := state.Trades[t.ID]
		if !ok {
			rec = &TradeRecord{}
			state.Trades[t.ID] = rec
		}
		leg := t
		switch mode {
		case models.ModeReal:
			if rec.Real == nil {
				rec.Real = &leg
			}
		case models.ModeTheoretical:
			if rec.Theoretical == nil {
				rec.Theoretical = &leg
			}
		}
	}
}

// dedupeByID drops entities whose id was already seen, first wins.
func dedupeByID[T any](items []T, id func(T) string) []T {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, item := range items {
		key := id(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// Clone returns a deep copy of the state by round-tripping the export
// document. Apply mutates the clone so a failed mutation never leaves
// the live state half-written.
func (s *State) Clone() (*State, error) {
	raw, err := json.Marshal(s.ToDocument())
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return FromDocument(&doc), nil
}

// writeSnapshot writes the document to path atomically: temp file in
// the same directory, then rename.
func writeSnapshot(path string, doc *Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewSnapshotError(path, "encode", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewSnapshotError(path, "mkdir", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return apperrors.NewSnapshotError(path, "create", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewSnapshotError(path, "write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewSnapshotError(path, "close", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewSnapshotError(path, "rename", err)
	}
	return nil
}

// readSnapshot reads and decodes a snapshot document from path.
func readSnapshot(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.NewSnapshotError(path, "decode", apperrors.ErrSnapshotCorrupt)
	}
	return &doc, nil
}
