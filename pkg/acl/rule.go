// Package acl extracts extended access-list entries from firewall
// configuration text.
package acl

// Rule is one extended ACL entry decomposed into its positional fields.
// Fields the source line is too short to provide are empty strings.
type Rule struct {
	ACLName     string `json:"acl_name" yaml:"acl_name"`
	Action      string `json:"action" yaml:"action"`
	Protocol    string `json:"protocol" yaml:"protocol"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	RawLine     string `json:"raw_line" yaml:"raw_line"`
}

// IsPermit reports whether the rule action is the literal "permit".
func (r Rule) IsPermit() bool {
	return r.Action == "permit"
}
