package acl

import "strings"

// Slot is a named token position in an extended ACL line:
//
//	access-list <name> extended <action> <protocol> <source> <mask|keyword> <destination> ...
type Slot int

const (
	SlotMarker      Slot = 0
	SlotACLName     Slot = 1
	SlotQualifier   Slot = 2
	SlotAction      Slot = 3
	SlotProtocol    Slot = 4
	SlotSource      Slot = 5
	SlotSourceMask  Slot = 6
	SlotDestination Slot = 7
)

// Tokens holds the whitespace-separated tokens of a single line.
type Tokens []string

// Tokenize splits a line on any run of Unicode whitespace.
func Tokenize(line string) Tokens {
	return Tokens(strings.Fields(line))
}

// Slot returns the token at position s, or "" when the line has fewer
// tokens. Short lines never fail; they produce empty slots.
func (t Tokens) Slot(s Slot) string {
	if s < 0 || int(s) >= len(t) {
		return ""
	}
	return t[s]
}
