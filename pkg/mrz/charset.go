package mrz

import "fmt"

// Filler pads fields and separates name components.
const Filler = '<'

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// charValues maps every legal MRZ byte to its checksum value. Entries for
// bytes outside the alphabet hold -1.
var charValues = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = int8(i)
	}
	t[Filler] = 0
	return t
}()

// isLegal reports whether c belongs to the MRZ alphabet.
func isLegal(c byte) bool {
	return charValues[c] >= 0
}

// charValue returns the checksum value of c. The field grammar guarantees only
// legal characters reach the checksum engine, so anything else is a bug.
func charValue(c byte) int {
	v := charValues[c]
	if v < 0 {
		panic(fmt.Sprintf("mrz: illegal character %q reached checksum", c))
	}
	return int(v)
}
