package selection_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/config"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/selection"
)

func newSelector(t *testing.T, mutate func(*config.Config)) *selection.Selector {
	t.Helper()
	cfg := config.Default()
	cfg.Selection.ExcludedCoders = []string{"spotcheck", "test"}
	cfg.Selection.CompletenessThreshold = 100
	if mutate != nil {
		mutate(&cfg)
	}
	return selection.New(&cfg)
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestSelectSingleEligibleCoder(t *testing.T) {
	sel := newSelector(t, nil)
	candidates := []selection.Candidate{
		{Coder: "spotcheck_anna", Records: 500},
		{Coder: "bella", Records: 500},
		{Coder: "carla", Records: 40},
	}

	result := sel.Select(candidates, 0, seededRand(1))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.First == nil || result.First.Candidate.Coder != "bella" {
		t.Fatalf("expected bella as first pass, got %+v", result.First)
	}
	if result.Second != nil {
		t.Fatalf("expected no second pass, got %+v", result.Second)
	}
	if len(result.Excluded) != 1 || result.Excluded[0] != "spotcheck_anna" {
		t.Fatalf("unexpected excluded list: %v", result.Excluded)
	}
	if len(result.Unfinished) != 1 || result.Unfinished[0] != "carla" {
		t.Fatalf("unexpected unfinished list: %v", result.Unfinished)
	}
}

func TestSelectExclusionUsesORSemantics(t *testing.T) {
	sel := newSelector(t, nil)
	candidates := []selection.Candidate{
		{Coder: "TestAccount", Records: 500},
		{Coder: "SpotCheck", Records: 500},
	}

	result := sel.Select(candidates, 0, seededRand(1))
	if !errors.Is(result.Err, selection.ErrNoValidCoder) {
		t.Fatalf("expected ErrNoValidCoder, got %v", result.Err)
	}
	if len(result.Excluded) != 2 {
		t.Fatalf("expected both aliases excluded, got %v", result.Excluded)
	}
}

func TestSelectLegacyANDSemanticsLetsAliasesThrough(t *testing.T) {
	sel := newSelector(t, func(cfg *config.Config) {
		cfg.Selection.RequireAllAliases = true
	})
	candidates := []selection.Candidate{
		{Coder: "test_runner", Records: 500},        // one alias only
		{Coder: "spotcheck_test_dana", Records: 40}, // both aliases, unfinished anyway
	}

	result := sel.Select(candidates, 0, seededRand(1))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.First == nil || result.First.Candidate.Coder != "test_runner" {
		t.Fatalf("legacy AND should keep single-alias names, got %+v", result.First)
	}
	if len(result.Excluded) != 1 || result.Excluded[0] != "spotcheck_test_dana" {
		t.Fatalf("unexpected excluded list: %v", result.Excluded)
	}
}

func TestSelectCompletenessUsesExpectedFramesWhenKnown(t *testing.T) {
	sel := newSelector(t, nil)
	candidates := []selection.Candidate{
		{Coder: "anna", Records: 150},
	}

	// 150 records clear the floor of 100 but not the known frame count.
	result := sel.Select(candidates, 200, seededRand(1))
	if !errors.Is(result.Err, selection.ErrNoFinishedCoder) {
		t.Fatalf("expected ErrNoFinishedCoder, got %v", result.Err)
	}

	result = sel.Select(candidates, 150, seededRand(1))
	if result.Err != nil {
		t.Fatalf("coder matching the frame count exactly should pass: %v", result.Err)
	}
}

func TestSelectTwoCoders(t *testing.T) {
	sel := newSelector(t, nil)
	candidates := []selection.Candidate{
		{Coder: "anna", Records: 500},
		{Coder: "bella", Records: 500},
	}

	result := sel.Select(candidates, 0, seededRand(7))
	if result.First == nil || result.Second == nil {
		t.Fatalf("expected both passes assigned: %+v", result)
	}
	if result.First.Rank != config.RankFirst || result.Second.Rank != config.RankSecond {
		t.Fatalf("unexpected ranks: %+v", result)
	}
	if result.First.Candidate.Coder == result.Second.Candidate.Coder {
		t.Fatal("same coder assigned to both passes")
	}
	if len(result.Discarded) != 0 {
		t.Fatalf("unexpected discards: %v", result.Discarded)
	}
}

func TestSelectMoreThanTwoDiscardsExtras(t *testing.T) {
	sel := newSelector(t, nil)
	candidates := []selection.Candidate{
		{Coder: "anna", Records: 500},
		{Coder: "bella", Records: 500},
		{Coder: "carla", Records: 500},
		{Coder: "dana", Records: 500},
	}

	result := sel.Select(candidates, 0, seededRand(3))
	if result.First == nil || result.Second == nil {
		t.Fatalf("expected both passes assigned: %+v", result)
	}
	if len(result.Discarded) != 2 {
		t.Fatalf("expected 2 discarded coders, got %v", result.Discarded)
	}
	assigned := map[string]bool{
		result.First.Candidate.Coder:  true,
		result.Second.Candidate.Coder: true,
	}
	for _, discarded := range result.Discarded {
		if assigned[discarded] {
			t.Fatalf("coder %q both assigned and discarded", discarded)
		}
	}
}

func TestSelectDeterministicForFixedSeed(t *testing.T) {
	sel := newSelector(t, nil)
	candidates := []selection.Candidate{
		{Coder: "anna", Records: 500},
		{Coder: "bella", Records: 500},
		{Coder: "carla", Records: 500},
	}

	first := sel.Select(append([]selection.Candidate(nil), candidates...), 0, seededRand(42))
	second := sel.Select(append([]selection.Candidate(nil), candidates...), 0, seededRand(42))
	if first.First.Candidate.Coder != second.First.Candidate.Coder ||
		first.Second.Candidate.Coder != second.Second.Candidate.Coder {
		t.Fatalf("same seed produced different assignments: %+v vs %+v", first, second)
	}
}

func TestSelectFairAcrossSeeds(t *testing.T) {
	sel := newSelector(t, nil)
	coders := []string{"anna", "bella", "carla"}

	const trials = 3000
	firstCounts := make(map[string]int, len(coders))
	assignedCounts := make(map[string]int, len(coders))
	for seed := uint64(0); seed < trials; seed++ {
		candidates := []selection.Candidate{
			{Coder: "anna", Records: 500},
			{Coder: "bella", Records: 500},
			{Coder: "carla", Records: 500},
		}
		result := sel.Select(candidates, 0, seededRand(seed))
		if result.First == nil || result.Second == nil {
			t.Fatal("expected two passes per trial")
		}
		if len(result.Discarded) != 1 {
			t.Fatalf("expected exactly one discard, got %v", result.Discarded)
		}
		firstCounts[result.First.Candidate.Coder]++
		assignedCounts[result.First.Candidate.Coder]++
		assignedCounts[result.Second.Candidate.Coder]++
	}

	// Each coder should take the first pass in roughly a third of trials and
	// appear in some pass in roughly two thirds.
	for _, coder := range coders {
		first := firstCounts[coder]
		if first < trials/3-trials/10 || first > trials/3+trials/10 {
			t.Errorf("coder %s first-pass share %d of %d looks biased", coder, first, trials)
		}
		assigned := assignedCounts[coder]
		want := 2 * trials / 3
		if assigned < want-trials/10 || assigned > want+trials/10 {
			t.Errorf("coder %s assignment share %d of %d looks biased", coder, assigned, trials)
		}
	}
}
