// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package spell

import (
	"strings"
)

// maxDistance bounds how different a suggestion may be; beyond this a
// candidate is noise rather than a likely typo.
const maxDistance = 2

// Nearest returns the candidate closest to word in edit distance, if any
// candidate is close enough to plausibly be what the author meant.
func Nearest(word string, candidates []string) (string, bool) {
	best := ""
	bestDistance := maxDistance + 1
	for _, candidate := range candidates {
		d := distance(strings.ToLower(word), strings.ToLower(candidate))
		if d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	return best, bestDistance <= maxDistance
}

// distance is the Levenshtein edit distance between a and b.
func distance(a, b string) int {
	if a == b {
		return 0
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
