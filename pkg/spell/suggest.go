// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package spell

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
)

// Suggest returns the known word closest to word, or "" when nothing is close.
func Suggest(word string, known []string) string {
	if len(word) == 0 || len(known) == 0 {
		return ""
	}

	candidates := append([]string(nil), known...)
	sort.Strings(candidates)

	matches := fuzzy.Find(word, candidates)
	if len(matches) > 0 {
		return matches[0].Str
	}

	// fuzzy matching only finds candidates containing all characters of word;
	// fall back to the reverse for words with extra characters (e.g. "upcasee").
	best, bestDist := "", -1
	for _, candidate := range candidates {
		dist := levenshtein.ComputeDistance(strings.ToLower(word), strings.ToLower(candidate))
		if dist <= maxDistance(word) && (bestDist < 0 || dist < bestDist) {
			best, bestDist = candidate, dist
		}
	}
	return best
}

func maxDistance(word string) int {
	if len(word) <= 2 {
		return 1
	}
	return 2
}
