package scoring

import (
	"sort"
	"time"

	"tradevision/internal/models"
)

// Score deltas for the fixed discipline labels. The entry-miss delta is
// user-configurable and passed in separately.
const (
	DeltaRulesFollow   = 10
	DeltaNotFollow     = -10
	DeltaPartialFollow = -5
)

// Delta returns the score contribution of one discipline label.
// Statuses outside the table contribute nothing.
func Delta(status models.RulesFollowedStatus, entryMissPenalty int) int {
	switch status {
	case models.RulesFollow:
		return DeltaRulesFollow
	case models.RulesNotFollow:
		return DeltaNotFollow
	case models.RulesPartially:
		return DeltaPartialFollow
	case models.RulesMissEntry, models.RulesEntryMiss:
		return entryMissPenalty
	}
	return 0
}

// Point is one sample of the cumulative discipline score time series.
type Point struct {
	Time  time.Time
	Score int
}

// Curve computes the cumulative discipline score over a day's closed
// trades, processed in ascending exit-time order. Reordering the same
// trades changes the intermediate series but never the final score.
func Curve(trades []models.Trade, entryMissPenalty int) []Point {
	ordered := closedByExitTime(trades)

	points := make([]Point, 0, len(ordered))
	score := 0
	for _, t := range ordered {
		score += Delta(t.RulesFollowed, entryMissPenalty)
		points = append(points, Point{Time: *t.ExitTime, Score: score})
	}
	return points
}

// Candle is the charting form of one trade's score move: open is the
// pre-trade score, close the post-trade score, and high/low bracket the
// two. Each trade is a single-direction move, never a true range.
type Candle struct {
	Time  time.Time
	Open  int
	High  int
	Low   int
	Close int
}

// Candles computes the candlestick variant of the score series.
func Candles(trades []models.Trade, entryMissPenalty int) []Candle {
	ordered := closedByExitTime(trades)

	candles := make([]Candle, 0, len(ordered))
	score := 0
	for _, t := range ordered {
		open := score
		score += Delta(t.RulesFollowed, entryMissPenalty)

		c := Candle{Time: *t.ExitTime, Open: open, Close: score}
		if open > score {
			c.High, c.Low = open, score
		} else {
			c.High, c.Low = score, open
		}
		candles = append(candles, c)
	}
	return candles
}

// FinalScore is the day's ending cumulative score.
func FinalScore(trades []models.Trade, entryMissPenalty int) int {
	score := 0
	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		score += Delta(t.RulesFollowed, entryMissPenalty)
	}
	return score
}

func closedByExitTime(trades []models.Trade) []models.Trade {
	var closed []models.Trade
	for _, t := range trades {
		if t.Closed() {
			closed = append(closed, t)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].ExitTime.Before(*closed[j].ExitTime)
	})
	return closed
}
