package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkJoinBurst       BookmarkType = "join_burst"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkSteadyFlow      BookmarkType = "steady_flow"
	BookmarkRunChange       BookmarkType = "run_change"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the window stats stream.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	run                int
	started            bool
	recentLivePeak     int // peak live count in the current run
	steadyWindowsCount int // consecutive windows with a stable class mix
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady flow detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.started && stats.Run != bd.run {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkRunChange,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Run %d started with aggregation rate %.2f", stats.Run, stats.Rate),
		})
		bd.resetRun()
	}
	bd.run = stats.Run
	bd.started = true

	if bd.historyFull || bd.historyIdx > 0 {
		// Join burst: joins > 2x rolling average
		if b := bd.checkJoinBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Population crash: dropped >30% from run peak within one window
		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Steady flow: class mix with low variance over 5+ windows
		if b := bd.checkSteadyFlow(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Live > bd.recentLivePeak {
		bd.recentLivePeak = stats.Live
	}

	return bookmarks
}

func (bd *BookmarkDetector) resetRun() {
	bd.historyIdx = 0
	bd.historyFull = false
	bd.recentLivePeak = 0
	bd.steadyWindowsCount = 0
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkJoinBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalJoins int
	for _, h := range history {
		totalJoins += h.Joins
	}
	avgJoins := float64(totalJoins) / float64(len(history))
	if avgJoins == 0 {
		return nil
	}

	if float64(stats.Joins) > avgJoins*2.0 && stats.Joins >= 3 {
		return &Bookmark{
			Type:        BookmarkJoinBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d joins is %.1fx average (%.1f)", stats.Joins, float64(stats.Joins)/avgJoins, avgJoins),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentLivePeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Live)/float64(bd.recentLivePeak)
	if dropPercent > 0.30 && stats.Live < bd.recentLivePeak-10 {
		// Reset peak after crash
		oldPeak := bd.recentLivePeak
		bd.recentLivePeak = stats.Live

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Live particles dropped %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Live),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSteadyFlow(stats WindowStats) *Bookmark {
	if stats.Live < 10 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Fraction of fastest particles over the last 4 windows
	recent := history[len(history)-4:]
	var sum float64
	fracs := make([]float64, len(recent))
	for i, h := range recent {
		if h.Live > 0 {
			fracs[i] = float64(h.Fastest) / float64(h.Live)
		}
		sum += fracs[i]
	}
	mean := sum / float64(len(fracs))

	var variance float64
	for _, f := range fracs {
		d := f - mean
		variance += d * d
	}
	variance /= float64(len(fracs))

	if variance < 0.0025 { // stddev < 0.05
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyFlow,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady class mix with %d live particles over 5+ windows", stats.Live),
		}
	}

	return nil
}
