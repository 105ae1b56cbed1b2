package selection

import (
	"errors"
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/config"
)

var (
	// ErrNoValidCoder marks recordings where every candidate carried a
	// reserved reviewer alias.
	ErrNoValidCoder = errors.New("no valid coder")
	// ErrNoFinishedCoder marks recordings where no valid coder reached the
	// completeness bar.
	ErrNoFinishedCoder = errors.New("no finished coder")
)

// Candidate is one coder's annotation file offered for selection.
type Candidate struct {
	Coder   string
	Path    string
	Records int
}

// Assignment binds a candidate to the first or second annotation pass.
type Assignment struct {
	Rank      config.Rank
	Candidate Candidate
}

// Result reports the selected passes and the audit trail of everything that
// was filtered or discarded along the way.
type Result struct {
	First  *Assignment
	Second *Assignment

	// Excluded lists coders rejected by the reserved-alias filter.
	Excluded []string
	// Unfinished lists valid coders below the completeness bar.
	Unfinished []string
	// Discarded lists finished coders beyond the two assigned passes.
	Discarded []string

	// Err is ErrNoValidCoder or ErrNoFinishedCoder when no pass could be
	// assigned, nil otherwise.
	Err error
}

// Assignments returns the assigned passes in rank order.
func (r Result) Assignments() []Assignment {
	var out []Assignment
	if r.First != nil {
		out = append(out, *r.First)
	}
	if r.Second != nil {
		out = append(out, *r.Second)
	}
	return out
}

// Selector filters candidate coders and assigns first/second passes.
type Selector struct {
	// aliases are case-folded reserved reviewer aliases.
	aliases []string
	// requireAll reproduces the legacy behavior of excluding a coder only
	// when its name contains every alias. Default is OR: any match excludes.
	requireAll bool
	// floor is the minimum record count accepted when the recording's frame
	// count is unknown.
	floor  int
	folder cases.Caser
}

// New builds a selector from the configured exclusion list and completeness
// threshold.
func New(cfg *config.Config) *Selector {
	return &Selector{
		aliases:    append([]string(nil), cfg.Selection.ExcludedCoders...),
		requireAll: cfg.Selection.RequireAllAliases,
		floor:      cfg.Selection.CompletenessThreshold,
		folder:     cases.Fold(),
	}
}

// Select filters candidates by name validity and completeness, shuffles the
// survivors with rng, and assigns the first two of the permutation to the
// first and second pass. expectedFrames is the recording's frame count when
// resolvable; pass 0 or less to fall back to the configured floor. rng is
// always injected so callers control determinism.
func (s *Selector) Select(candidates []Candidate, expectedFrames int, rng *rand.Rand) Result {
	var result Result

	valid := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if s.excludedName(candidate.Coder) {
			result.Excluded = append(result.Excluded, candidate.Coder)
			continue
		}
		valid = append(valid, candidate)
	}
	if len(valid) == 0 {
		result.Err = ErrNoValidCoder
		return result
	}

	bar := s.floor
	if expectedFrames > 0 {
		bar = expectedFrames
	}
	finished := make([]Candidate, 0, len(valid))
	for _, candidate := range valid {
		if candidate.Records < bar {
			result.Unfinished = append(result.Unfinished, candidate.Coder)
			continue
		}
		finished = append(finished, candidate)
	}
	if len(finished) == 0 {
		result.Err = ErrNoFinishedCoder
		return result
	}

	rng.Shuffle(len(finished), func(i, j int) {
		finished[i], finished[j] = finished[j], finished[i]
	})

	result.First = &Assignment{Rank: config.RankFirst, Candidate: finished[0]}
	if len(finished) > 1 {
		result.Second = &Assignment{Rank: config.RankSecond, Candidate: finished[1]}
	}
	for _, extra := range finished[min(len(finished), 2):] {
		result.Discarded = append(result.Discarded, extra.Coder)
	}
	return result
}

// excludedName reports whether a coder name identifies a reserved reviewer.
// Matching is case-folded substring containment; with OR semantics a single
// alias match excludes, with the legacy AND toggle every alias must match.
func (s *Selector) excludedName(coder string) bool {
	if len(s.aliases) == 0 {
		return false
	}
	folded := s.folder.String(strings.TrimSpace(coder))
	matched := 0
	for _, alias := range s.aliases {
		if strings.Contains(folded, alias) {
			if !s.requireAll {
				return true
			}
			matched++
		}
	}
	return s.requireAll && matched == len(s.aliases)
}
