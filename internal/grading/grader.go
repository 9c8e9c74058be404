// Package grading checks a player's entered quantities against the answer.
package grading

import (
	"fmt"
	"sort"
)

// Grade compares entered against expected for every symbol in order. Symbols
// missing from order are appended in sorted order so nothing is skipped.
// A missing entered quantity counts as zero.
func Grade(expected, entered map[string]int, order []string) Result {
	ids := checkOrder(expected, order)
	res := Result{Passed: true, Checks: make([]CheckResult, 0, len(ids))}
	for _, id := range ids {
		want := expected[id]
		got := entered[id]
		cr := CheckResult{ID: id, Expected: want, Entered: got, Passed: want == got}
		switch {
		case cr.Passed:
			cr.Message = "ok"
		case got < want:
			cr.Message = fmt.Sprintf("too few %s: have %d, need %d", id, got, want)
		default:
			cr.Message = fmt.Sprintf("too many %s: have %d, need %d", id, got, want)
		}
		if !cr.Passed {
			res.Passed = false
			res.Mismatches++
		}
		res.Checks = append(res.Checks, cr)
	}
	return res
}

func checkOrder(expected map[string]int, order []string) []string {
	seen := make(map[string]struct{}, len(expected))
	out := make([]string, 0, len(expected))
	for _, id := range order {
		if _, ok := expected[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	rest := make([]string, 0)
	for id := range expected {
		if _, ok := seen[id]; !ok {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
