package engine

const (
	fuzzyMatchPoint       = 1
	fuzzyStartBonus       = 8
	fuzzyBoundaryBonus    = 5
	fuzzyConsecutiveBonus = 3
)

// FuzzyScore reports how well query matches target as an in-order
// subsequence. Both are expected to be normalized. The score is zero
// unless every query character is found in order; consecutive runs,
// a match at the start of target, and matches right after a space or
// hyphen score higher.
func FuzzyScore(query, target string) int {
	q := []rune(query)
	t := []rune(target)
	if len(q) == 0 || len(q) > len(t) {
		return 0
	}

	score := 0
	qi := 0
	run := 0
	last := -2
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			continue
		}

		points := fuzzyMatchPoint
		switch {
		case ti == 0:
			points += fuzzyStartBonus
		case t[ti-1] == ' ' || t[ti-1] == '-':
			points += fuzzyBoundaryBonus
		}
		if last == ti-1 {
			run++
			points += fuzzyConsecutiveBonus * run
		} else {
			run = 0
		}

		score += points
		last = ti
		qi++
	}

	if qi < len(q) {
		return 0
	}
	return score
}

// Levenshtein returns the edit distance between a and b in runes.
func Levenshtein(a, b string) int {
	s1 := []rune(a)
	s2 := []rune(b)
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}

// Similarity is 1 minus the edit distance normalized by the longer string.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}
