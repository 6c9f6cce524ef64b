package mrz

import "fmt"

var weights = [3]int{7, 3, 1}

// weightedSum folds s into the ICAO weighted sum, starting the weight cycle at
// offset so that several ranges can be added as if they were contiguous.
func weightedSum(s string, offset int) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += charValue(s[i]) * weights[(offset+i)%len(weights)]
	}
	return sum
}

// CheckDigit computes the weighted mod-10 check digit of s.
func CheckDigit(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if !isLegal(s[i]) {
			return 0, fmt.Errorf("character %q at position %d is not part of the MRZ alphabet", s[i], i)
		}
	}
	return weightedSum(s, 0) % 10, nil
}

// digitMatches reports whether stored is the decimal digit equal to sum mod 10.
// A filler is never an accepted check digit.
func digitMatches(stored byte, sum int) bool {
	if stored < '0' || stored > '9' {
		return false
	}
	return int(stored-'0') == sum%10
}

// contribution is one term of an overall check digit: a field value and,
// optionally, the check digit stored right after it.
type contribution struct {
	field     fieldName
	withCheck bool
}

// overallSum accumulates the contributions in order, each continuing the
// weight cycle where the previous one stopped.
func overallSum(x *extraction, recipe []contribution) int {
	sum, pos := 0, 0
	for _, c := range recipe {
		v := x.values[c.field]
		sum += weightedSum(v, pos)
		pos += len(v)
		if c.withCheck {
			sum += weightedSum(string(x.checks[c.field]), pos)
			pos++
		}
	}
	return sum
}

