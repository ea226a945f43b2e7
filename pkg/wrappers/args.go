package wrappers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/user/aclsec/pkg/engine"
)

func stringArg(args map[string]interface{}, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// intArg accepts JSON numbers (float64) as well as numeric strings.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

func stringMapArg(args map[string]interface{}, key string) map[string]string {
	vars := make(map[string]string)
	switch v := args[key].(type) {
	case map[string]interface{}:
		for k, val := range v {
			vars[k] = fmt.Sprintf("%v", val)
		}
	case map[string]string:
		for k, val := range v {
			vars[k] = val
		}
	}
	return vars
}

// analysis resolves an optional analysis_id argument against the store,
// defaulting to the most recent analysis.
func analysis(store *engine.Store, args map[string]interface{}) (*engine.Analysis, string) {
	if store == nil {
		return nil, "Error: analysis store not initialized."
	}
	if id := stringArg(args, "analysis_id"); id != "" {
		a, ok := store.Get(id)
		if !ok {
			return nil, fmt.Sprintf("Analysis '%s' not found.", id)
		}
		return a, ""
	}
	a, ok := store.Latest()
	if !ok {
		return nil, "No analysis available yet. Run AnalyzeFirewallConfig first."
	}
	return a, ""
}

var analysisIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "ID of a previous analysis. Defaults to the most recent one.",
}
