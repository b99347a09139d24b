package dedupe

import "strings"

// normalizeName produces the comparison key for a correspondent name:
// lower-cased with surrounding whitespace stripped. Interior whitespace is
// significant ("JohnDoe" and "John Doe" are different names).
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Score returns a similarity between two correspondent names in [0, 1].
// Both names are normalized before comparison, so case and surrounding
// whitespace never affect the result.
//
// The measure is the Ratcliff-Obershelp ratio 2*M/T: M is the total length
// of matching blocks found by repeatedly taking the longest common substring
// and descending into the unmatched left and right remainders, and T is the
// combined length of both normalized names. Two empty names score 1.0 (no
// difference); one empty name scores 0.0.
//
// Pure function: no I/O, never fails, inputs are not mutated.
func Score(name1, name2 string) float64 {
	a := []rune(normalizeName(name1))
	b := []rune(normalizeName(name2))

	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// span is an unmatched window of both strings still to be searched.
	// An explicit work list replaces the textbook recursion so deeply
	// fragmented matches cannot grow the call stack.
	type span struct {
		aLo, aHi int
		bLo, bHi int
	}

	matched := 0
	work := []span{{0, len(a), 0, len(b)}}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]

		aStart, bStart, size := longestCommonBlock(a, b, s.aLo, s.aHi, s.bLo, s.bHi)
		if size == 0 {
			continue
		}
		matched += size
		work = append(work,
			span{s.aLo, aStart, s.bLo, bStart},
			span{aStart + size, s.aHi, bStart + size, s.bHi},
		)
	}

	return 2 * float64(matched) / float64(len(a)+len(b))
}

// longestCommonBlock finds the longest common substring of a[aLo:aHi] and
// b[bLo:bHi]. Ties resolve to the earliest start in a, then the earliest
// start in b, which keeps scoring deterministic. Returns size 0 when the
// windows share nothing.
func longestCommonBlock(a, b []rune, aLo, aHi, bLo, bHi int) (bestA, bestB, bestSize int) {
	bestA, bestB = aLo, bLo

	// lengths[j] = length of the common suffix ending at a[i], b[bLo+j-1]
	// from the previous row. One rolling row keeps memory linear in the
	// b-window.
	lengths := make([]int, bHi-bLo+1)
	for i := aLo; i < aHi; i++ {
		prevDiag := 0
		for j := bLo; j < bHi; j++ {
			cur := lengths[j-bLo+1]
			if a[i] == b[j] {
				run := prevDiag + 1
				lengths[j-bLo+1] = run
				if run > bestSize {
					bestSize = run
					bestA = i - run + 1
					bestB = j - run + 1
				}
			} else {
				lengths[j-bLo+1] = 0
			}
			prevDiag = cur
		}
	}
	return bestA, bestB, bestSize
}
