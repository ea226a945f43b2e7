package acl

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
hostname fw01
access-list OUTSIDE_IN extended permit tcp any host 192.168.1.10 eq 80
interface GigabitEthernet0/0
 ip address 192.168.1.1 255.255.255.0
access-list OUTSIDE_IN extended permit tcp any host 192.168.1.10 eq 443
access-list OUTSIDE_IN extended permit tcp any any eq 22
access-list INSIDE_OUT extended permit ip 192.168.1.0 255.255.255.0 any
access-list STD standard permit 10.0.0.0 255.0.0.0
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFileCountAndOrder(t *testing.T) {
	rules, err := ParseFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Len(t, rules, 4)

	assert.Equal(t, "access-list OUTSIDE_IN extended permit tcp any host 192.168.1.10 eq 80", rules[0].RawLine)
	assert.Equal(t, "access-list OUTSIDE_IN extended permit tcp any host 192.168.1.10 eq 443", rules[1].RawLine)
	assert.Equal(t, "access-list OUTSIDE_IN extended permit tcp any any eq 22", rules[2].RawLine)
	assert.Equal(t, "INSIDE_OUT", rules[3].ACLName)
}

func TestParseFileFields(t *testing.T) {
	rules, err := ParseFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, Rule{
		ACLName:     "OUTSIDE_IN",
		Action:      "permit",
		Protocol:    "tcp",
		Source:      "any",
		Destination: "192.168.1.10",
		RawLine:     "access-list OUTSIDE_IN extended permit tcp any host 192.168.1.10 eq 80",
	}, rules[0])

	// slot 6 is the source mask, slot 7 the destination
	assert.Equal(t, "192.168.1.0", rules[3].Source)
	assert.Equal(t, "any", rules[3].Destination)
}

func TestParseFileMissing(t *testing.T) {
	rules, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Nil(t, rules)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseFileDirectory(t *testing.T) {
	rules, err := ParseFile(t.TempDir())
	require.Error(t, err)
	assert.Nil(t, rules)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

type failingReader struct{ sent bool }

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.sent {
		f.sent = true
		return copy(p, "access-list A extended permit ip any any\n"), nil
	}
	return 0, errors.New("disk on fire")
}

func TestParseReadFailureReturnsNoPartialRules(t *testing.T) {
	rules, err := Parse(&failingReader{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Nil(t, rules)
}

func TestParseEmptyAndNoACL(t *testing.T) {
	rules, err := ParseFile(writeConfig(t, ""))
	require.NoError(t, err)
	assert.NotNil(t, rules)
	assert.Empty(t, rules)

	rules = ParseString("hostname firewall01\ninterface GigabitEthernet0/0\n ip address 192.168.1.1 255.255.255.0\n")
	assert.NotNil(t, rules)
	assert.Empty(t, rules)
}

func TestParseLineDegradesOnShortLines(t *testing.T) {
	r := ParseLine("access-list ONLY extended")
	assert.Equal(t, Rule{ACLName: "ONLY", RawLine: "access-list ONLY extended"}, r)

	r = ParseLine("access-list T extended deny ip any")
	assert.Equal(t, "deny", r.Action)
	assert.Equal(t, "ip", r.Protocol)
	assert.Equal(t, "any", r.Source)
	assert.Equal(t, "", r.Destination)
}

func TestRawLineRoundTrip(t *testing.T) {
	lines := []string{
		"   access-list TEST extended permit tcp any any eq 443   ",
		"\taccess-list  TWO  extended\tdeny ip any any\r",
		"access-list X extended permit   tcp  any  any",
	}
	rules := ParseString(strings.Join(lines, "\n"))
	require.Len(t, rules, len(lines))
	for i, line := range lines {
		assert.Equal(t, strings.TrimSpace(line), rules[i].RawLine)
	}
	assert.Equal(t, "TWO", rules[1].ACLName)
	assert.Equal(t, "deny", rules[1].Action)
}

func TestParseMatchesSubstringsAnywhere(t *testing.T) {
	rules := ParseString("remark access-list note about extended ACLs\nno-access-list here\n")
	require.Len(t, rules, 1)
	assert.Equal(t, "access-list", rules[0].ACLName)
}

func TestParseVeryLongLine(t *testing.T) {
	long := "access-list BIG extended permit tcp any any " + strings.Repeat("x", 200*1024)
	rules := ParseString(long + "\naccess-list NEXT extended deny ip any any\n")
	require.Len(t, rules, 2)
	assert.Equal(t, "NEXT", rules[1].ACLName)
}

func TestParseLineEndings(t *testing.T) {
	inputs := map[string]string{
		"lf":         "access-list A extended permit tcp any host 10.0.0.1 eq 22\naccess-list B extended deny ip any any\n",
		"crlf":       "access-list A extended permit tcp any host 10.0.0.1 eq 22\r\naccess-list B extended deny ip any any\r\n",
		"lone cr":    "access-list A extended permit tcp any host 10.0.0.1 eq 22\raccess-list B extended deny ip any any\r",
		"mixed":      "access-list A extended permit tcp any host 10.0.0.1 eq 22\r\rhostname x\naccess-list B extended deny ip any any",
		"no newline": "access-list A extended permit tcp any host 10.0.0.1 eq 22\raccess-list B extended deny ip any any",
	}
	for name, text := range inputs {
		t.Run(name, func(t *testing.T) {
			rules := ParseString(text)
			require.Len(t, rules, 2)
			assert.Equal(t, "access-list A extended permit tcp any host 10.0.0.1 eq 22", rules[0].RawLine)
			assert.Equal(t, "B", rules[1].ACLName)
			assert.NotContains(t, rules[0].RawLine, "\r")
		})
	}
}

// oneByteReader forces a lone '\r' to sit at the end of the scan buffer.
type oneByteReader struct{ r *strings.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

func TestParseCRLFSplitAcrossReads(t *testing.T) {
	rules, err := Parse(oneByteReader{strings.NewReader("access-list A extended permit ip any any\r\n\r\naccess-list B extended deny ip any any\r")})
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "A", rules[0].ACLName)
	assert.Equal(t, "B", rules[1].ACLName)
}

func TestTokensSlot(t *testing.T) {
	tokens := Tokenize("a b c")
	assert.Equal(t, "a", tokens.Slot(SlotMarker))
	assert.Equal(t, "c", tokens.Slot(SlotQualifier))
	assert.Equal(t, "", tokens.Slot(SlotAction))
	assert.Equal(t, "", tokens.Slot(Slot(-1)))
}
