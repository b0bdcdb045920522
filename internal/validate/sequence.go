// Package validate implements the four field validators and the record
// validator composing them. Each validator classifies one field as valid
// or invalid with a human-readable reason; Region and Postal consult the
// country/region reference table.
package validate

import "strings"

const sequenceLength = 4

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

// hasSequentialRun reports whether the uppercased value contains a
// 4-character run of consecutive ascending characters (e.g. "ABCD") or a
// 4-character substring of a QWERTY keyboard row.
func hasSequentialRun(value string) bool {
	upper := []rune(strings.ToUpper(value))

	for i := 0; i+sequenceLength <= len(upper); i++ {
		consecutive := true
		for j := 1; j < sequenceLength; j++ {
			if upper[i+j] != upper[i]+rune(j) {
				consecutive = false
				break
			}
		}
		if consecutive {
			return true
		}
	}

	s := string(upper)
	for _, row := range keyboardRows {
		for i := 0; i+sequenceLength <= len(row); i++ {
			if strings.Contains(s, row[i:i+sequenceLength]) {
				return true
			}
		}
	}

	return false
}
