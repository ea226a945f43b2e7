package acl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

const (
	declarationMarker = "access-list"
	extendedMarker    = "extended"
)

// ErrSourceUnavailable is returned when configuration text cannot be opened
// or read. No partial rule list accompanies it.
var ErrSourceUnavailable = errors.New("configuration source unavailable")

// IsACLLine reports whether line declares an extended access-list entry.
func IsACLLine(line string) bool {
	return strings.Contains(line, declarationMarker) && strings.Contains(line, extendedMarker)
}

// ParseLine decomposes a single line into a Rule. It does not check
// IsACLLine; callers filter first.
func ParseLine(line string) Rule {
	tokens := Tokenize(line)
	return Rule{
		ACLName:     tokens.Slot(SlotACLName),
		Action:      tokens.Slot(SlotAction),
		Protocol:    tokens.Slot(SlotProtocol),
		Source:      tokens.Slot(SlotSource),
		Destination: tokens.Slot(SlotDestination),
		RawLine:     strings.TrimSpace(line),
	}
}

// Parse reads r to the end and returns every extended ACL entry in input
// order. Lines end at "\n", "\r\n" or a lone "\r" and may be of any length.
func Parse(r io.Reader) ([]Rule, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	sc.Split(splitLines)

	rules := make([]Rule, 0)
	for sc.Scan() {
		if line := sc.Text(); IsACLLine(line) {
			rules = append(rules, ParseLine(line))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return rules, nil
}

// splitLines is a bufio.SplitFunc that accepts all three line endings.
func splitLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i], nil
		}
		// a trailing '\r' may still be followed by '\n'
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ParseString is Parse over in-memory text. It cannot fail.
func ParseString(text string) []Rule {
	rules, _ := Parse(strings.NewReader(text))
	return rules
}

// ParseFile opens path and parses it.
func ParseFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	rules, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rules, nil
}
