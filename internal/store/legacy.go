package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"tradevision/internal/models"
)

// legacyPrefix is the storage-key prefix the previous data layout used:
// one JSON file per entity collection per trading mode,
// tradeVisionApp_{real|theoretical}_{entity}.json. Older still,
// single-ledger installs wrote tradeVisionApp_{entity}.json, which
// migrates into the real mode.
const legacyPrefix = "tradeVisionApp"

// migrateLegacy folds legacy per-entity files found in dir into one
// document. Returns false when no legacy file exists. Malformed files
// are skipped with a warning, leaving that collection at its default.
func migrateLegacy(dir string, logger zerolog.Logger) (*Document, bool) {
	doc := &Document{SchemaVersion: SchemaVersion}
	found := false

	for _, mode := range models.LedgerModes() {
		snap := &doc.Real
		if mode == models.ModeTheoretical {
			snap = &doc.Theoretical
		}
		if loadLegacyMode(dir, string(mode), snap, logger) {
			found = true
		}
	}

	// Single-ledger era files carry no mode segment; they become the
	// real workspace unless a dual-ledger file already claimed it.
	if loadLegacyMode(dir, "", &doc.Real, logger) {
		found = true
	}

	loadLegacyScalar(dir, "longTradeLimit", &doc.LongTradeLimit, logger)
	loadLegacyScalar(dir, "shortTradeLimit", &doc.ShortTradeLimit, logger)

	return doc, found
}

func loadLegacyMode(dir, mode string, snap *ModeSnapshot, logger zerolog.Logger) bool {
	found := false
	found = loadLegacyEntity(dir, mode, "trades", &snap.Trades, logger) || found
	found = loadLegacyEntity(dir, mode, "conditions", &snap.Catalog, logger) || found
	found = loadLegacyEntity(dir, mode, "timeBlocks", &snap.RecurringBlocks, logger) || found
	found = loadLegacyEntity(dir, mode, "dailyPlans", &snap.DailyPlans, logger) || found
	found = loadLegacyEntity(dir, mode, "tradingFlows", &snap.Flows, logger) || found
	found = loadLegacyEntity(dir, mode, "logicalEdgeFlows", &snap.EdgeFlows, logger) || found
	found = loadLegacyEntity(dir, mode, "edges", &snap.Edges, logger) || found
	found = loadLegacyEntity(dir, mode, "formulas", &snap.Formulas, logger) || found
	found = loadLegacyEntity(dir, mode, "psychologyRules", &snap.PsychologyRules, logger) || found
	found = loadLegacyEntity(dir, mode, "liveOrders", &snap.Orders, logger) || found
	found = loadLegacyEntity(dir, mode, "dayActivities", &snap.Activities, logger) || found
	return found
}

// loadLegacyEntity reads one legacy collection file into target.
// A file that exists but does not parse is treated as absent.
func loadLegacyEntity[T any](dir, mode, entity string, target *T, logger zerolog.Logger) bool {
	path := legacyPath(dir, mode, entity)
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	// A later file never overwrites a collection already loaded from a
	// dual-ledger key.
	var zero T
	if !isZeroCollection(*target, zero) {
		return true
	}

	if err := json.Unmarshal(raw, target); err != nil {
		logger.Warn().Str("path", path).Err(err).
			Msg("Skipping malformed legacy data file, using defaults")
		*target = zero
		return false
	}
	return true
}

func loadLegacyScalar(dir, name string, target *float64, logger zerolog.Logger) {
	path := legacyPath(dir, "", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(raw, target); err != nil {
		logger.Warn().Str("path", path).Err(err).
			Msg("Skipping malformed legacy setting, using default")
	}
}

func legacyPath(dir, mode, entity string) string {
	if mode == "" {
		return filepath.Join(dir, fmt.Sprintf("%s_%s.json", legacyPrefix, entity))
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.json", legacyPrefix, mode, entity))
}

func isZeroCollection[T any](value, zero T) bool {
	a, _ := json.Marshal(value)
	b, _ := json.Marshal(zero)
	return string(a) == string(b)
}
