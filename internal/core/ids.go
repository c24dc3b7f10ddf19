package core

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MemberIDPrefix = "MEMB-"
	SavingIDPrefix = "SAV-"
)

// FormatMemberID renders n as MEMB-NNN. Numbers above 999 widen naturally.
func FormatMemberID(n int) string {
	return fmt.Sprintf("%s%03d", MemberIDPrefix, n)
}

// ParseMemberID returns the numeric suffix of a well-formed member id.
func ParseMemberID(id string) (int, bool) {
	return parseSequential(id, MemberIDPrefix)
}

// FormatSavingID renders n as SAV-NNN.
func FormatSavingID(n int) string {
	return fmt.Sprintf("%s%03d", SavingIDPrefix, n)
}

// ParseSavingID returns the numeric suffix of a well-formed saving id.
func ParseSavingID(id string) (int, bool) {
	return parseSequential(id, SavingIDPrefix)
}

// DisplaySavingID coerces legacy bare ids ("7") to the SAV-NNN display form.
// Ids already carrying the prefix are returned unchanged.
func DisplaySavingID(id string) string {
	if strings.HasPrefix(id, SavingIDPrefix) {
		return id
	}
	if len(id) < 3 {
		id = strings.Repeat("0", 3-len(id)) + id
	}
	return SavingIDPrefix + id
}

func parseSequential(id, prefix string) (int, bool) {
	digits, ok := strings.CutPrefix(id, prefix)
	if !ok || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
