package rank

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// DefaultLimit is the number of results shown for a query.
const DefaultLimit = 6

// Match is one candidate accepted by an Engine.
type Match struct {
	Str            string
	Index          int
	Score          int
	MatchedIndexes []int
}

// Engine ranks candidates against a query, best match first.
type Engine interface {
	Find(query string, candidates []string) []Match
}

// FuzzyEngine ranks with sahilm/fuzzy.
type FuzzyEngine struct{}

func (FuzzyEngine) Find(query string, candidates []string) []Match {
	found := fuzzy.Find(query, candidates)
	matches := make([]Match, 0, len(found))
	for _, m := range found {
		matches = append(matches, Match{
			Str:            m.Str,
			Index:          m.Index,
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return matches
}

// Result is a ranked suggestion ready for display.
type Result struct {
	Original    string
	Score       float64
	Highlighted string
	Display     string
}

// Options tune the adapter.
type Options struct {
	Limit int
	// Threshold drops results scoring below this percentage. Zero keeps
	// everything the engine returns.
	Threshold float64
	// Highlight underlines matched runes when true.
	Highlight bool
}

// Adapter turns an Engine's raw output into display-ready results.
type Adapter struct {
	engine Engine
	opts   Options
	logger *slog.Logger

	scoreStyle     lipgloss.Style
	matchedStyle   lipgloss.Style
	unmatchedStyle lipgloss.Style
}

// NewAdapter wraps engine. A nil engine is an error: searching cannot start
// until the ranking collaborator exists.
func NewAdapter(engine Engine, opts Options, logger *slog.Logger) (*Adapter, error) {
	if engine == nil {
		return nil, fmt.Errorf("rank: engine is required")
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{
		engine:         engine,
		opts:           opts,
		logger:         logger,
		scoreStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true),
		matchedStyle:   lipgloss.NewStyle().Underline(true),
		unmatchedStyle: lipgloss.NewStyle(),
	}, nil
}

// NewDefault returns an adapter over FuzzyEngine with highlighting on.
func NewDefault(limit int, logger *slog.Logger) *Adapter {
	adapter, _ := NewAdapter(FuzzyEngine{}, Options{Limit: limit, Highlight: true}, logger)
	return adapter
}

// Limit returns the maximum number of results per search.
func (a *Adapter) Limit() int {
	return a.opts.Limit
}

// Search ranks candidates against query. An empty query or candidate list
// yields no results.
func (a *Adapter) Search(candidates []string, query string) (results []Result) {
	if len(candidates) == 0 || strings.TrimSpace(query) == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("ranking failed", "query", query, "panic", r)
			results = nil
		}
	}()

	matches := a.engine.Find(query, candidates)
	if len(matches) == 0 {
		return nil
	}
	perfect := a.perfectScore(query)

	results = make([]Result, 0, a.opts.Limit)
	for _, m := range matches {
		score := normalizeScore(m.Score, perfect)
		if a.opts.Threshold != 0 && score < a.opts.Threshold {
			continue
		}
		highlighted := m.Str
		if a.opts.Highlight && len(m.MatchedIndexes) > 0 {
			highlighted = lipgloss.StyleRunes(m.Str, m.MatchedIndexes, a.matchedStyle, a.unmatchedStyle)
		}
		results = append(results, Result{
			Original:    m.Str,
			Score:       score,
			Highlighted: highlighted,
			Display:     a.scoreStyle.Render(FormatScore(score)) + "  " + highlighted,
		})
		if len(results) == a.opts.Limit {
			break
		}
	}
	return results
}

// Strings returns the original values of results in order.
func Strings(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Original
	}
	return out
}

// FormatScore renders a percentage the way the overlay shows it.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f%%", score)
}

// perfectScore is the raw score of the query matched against itself, the
// reference point for the percentage.
func (a *Adapter) perfectScore(query string) int {
	self := a.engine.Find(query, []string{query})
	if len(self) == 0 || self[0].Score <= 0 {
		return 0
	}
	return self[0].Score
}

// normalizeScore maps a raw score onto a percentage of a perfect match. The
// mapping is linear so the engine's ordering is preserved; typo-tolerant or
// weak matches may land outside 0-100.
func normalizeScore(raw, perfect int) float64 {
	if perfect <= 0 {
		return float64(raw)
	}
	return 100 * float64(raw) / float64(perfect)
}
