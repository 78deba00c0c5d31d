package pacdb

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/h0rv/pacfront/internal/domain"
)

// Resolve returns the first package in list that satisfies dep, preferring
// a package of the same name over one that only provides it.
func Resolve(list []*domain.Package, dep domain.Depend) (*domain.Package, bool) {
	for _, p := range list {
		if SatisfiedByName(p, dep) {
			return p, true
		}
	}
	for _, p := range list {
		if SatisfiedByProvision(p, dep) {
			return p, true
		}
	}
	return nil, false
}

// ResolveName resolves a bare package name (as found in required-by lists).
func ResolveName(list []*domain.Package, name string) (*domain.Package, bool) {
	return Resolve(list, domain.Depend{Name: name})
}

// Suggest returns up to n package names from list closest to name by edit
// distance. Names further than half the query length are not suggested.
func Suggest(list []*domain.Package, name string, n int) []string {
	type candidate struct {
		name string
		dist int
	}

	limit := len(name)/2 + 1
	var cands []candidate
	for _, p := range list {
		d := levenshtein.ComputeDistance(name, p.Name)
		if d <= limit {
			cands = append(cands, candidate{p.Name, d})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].name < cands[j].name
	})

	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}
	return out
}
