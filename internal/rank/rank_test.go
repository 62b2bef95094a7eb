package rank

import (
	"fmt"
	"sort"
	"testing"
)

type stubEngine struct {
	matches []Match
	panics  bool
}

func (s stubEngine) Find(query string, candidates []string) []Match {
	if s.panics {
		panic("engine not loaded")
	}
	if len(candidates) == 1 && candidates[0] == query {
		return []Match{{Str: query, Score: 200}}
	}
	return s.matches
}

func TestSearchEmptyInputs(t *testing.T) {
	adapter := NewDefault(0, nil)
	if got := adapter.Search(nil, "he"); len(got) != 0 {
		t.Fatalf("expected no results for empty candidates, got %v", got)
	}
	if got := adapter.Search([]string{"hello"}, ""); len(got) != 0 {
		t.Fatalf("expected no results for empty query, got %v", got)
	}
	if got := adapter.Search([]string{"hello"}, "   "); len(got) != 0 {
		t.Fatalf("expected no results for blank query, got %v", got)
	}
}

func TestSearchFuzzyMatches(t *testing.T) {
	adapter := NewDefault(0, nil)
	got := Strings(adapter.Search([]string{"hello", "help", "held", "world"}, "he"))
	sort.Strings(got)
	want := []string{"held", "hello", "help"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	candidates := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("abc%d", i))
	}
	adapter := NewDefault(0, nil)
	if got := adapter.Search(candidates, "abc"); len(got) != DefaultLimit {
		t.Fatalf("expected %d results, got %d", DefaultLimit, len(got))
	}
	adapter = NewDefault(2, nil)
	if got := adapter.Search(candidates, "abc"); len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
}

func TestScoreNormalization(t *testing.T) {
	engine := stubEngine{matches: []Match{
		{Str: "exact", Score: 200},
		{Str: "close", Score: 150},
		{Str: "weak", Score: -20},
	}}
	adapter, err := NewAdapter(engine, Options{}, nil)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	results := adapter.Search([]string{"exact", "close", "weak"}, "q")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantScores := []float64{100, 75, -10}
	for i, want := range wantScores {
		if results[i].Score != want {
			t.Errorf("result %d score = %v, want %v", i, results[i].Score, want)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("scores not monotonic: %v", results)
		}
	}
}

func TestThresholdDropsLowScores(t *testing.T) {
	engine := stubEngine{matches: []Match{
		{Str: "exact", Score: 200},
		{Str: "weak", Score: -20},
	}}
	adapter, _ := NewAdapter(engine, Options{Threshold: 50}, nil)
	if got := Strings(adapter.Search([]string{"exact", "weak"}, "q")); len(got) != 1 || got[0] != "exact" {
		t.Fatalf("unexpected results: %v", got)
	}
}

func TestSearchRecoversFromEnginePanic(t *testing.T) {
	adapter, _ := NewAdapter(stubEngine{panics: true}, Options{}, nil)
	if got := adapter.Search([]string{"hello"}, "he"); got != nil {
		t.Fatalf("expected nil results, got %v", got)
	}
}

func TestNewAdapterRequiresEngine(t *testing.T) {
	if _, err := NewAdapter(nil, Options{}, nil); err == nil {
		t.Fatal("expected error for nil engine")
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(87.5); got != "87.50%" {
		t.Fatalf("got %q", got)
	}
}
