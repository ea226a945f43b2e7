// Package report renders analysis results as JSON, CSV, XLSX and HTML files and
// as a console summary.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/user/aclsec/pkg/acl"
	"github.com/user/aclsec/pkg/engine"
)

// Report is everything a renderer needs. Field names follow the JSON
// document consumers already parse.
type Report struct {
	ID            string           `json:"id"`
	Timestamp     time.Time        `json:"timestamp"`
	Source        string           `json:"source,omitempty"`
	Summary       engine.Summary   `json:"summary"`
	Findings      []engine.Finding `json:"findings"`
	RulesAnalyzed []acl.Rule       `json:"rules_analyzed"`
}

// New builds a report. nil slices become empty so JSON shows [].
func New(source string, rules []acl.Rule, findings []engine.Finding) *Report {
	if rules == nil {
		rules = []acl.Rule{}
	}
	if findings == nil {
		findings = []engine.Finding{}
	}
	return &Report{
		ID:            uuid.NewString(),
		Timestamp:     time.Now(),
		Source:        source,
		Summary:       engine.Summarize(len(rules), findings),
		Findings:      findings,
		RulesAnalyzed: rules,
	}
}

// FromAnalysis builds a report for a stored analysis, reusing its ID.
func FromAnalysis(a *engine.Analysis) *Report {
	r := New(a.Source, a.Rules, a.Findings)
	r.ID = a.ID
	r.Timestamp = a.CreatedAt
	return r
}

// Format is an output file type.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
	FormatAll  Format = "all"
)

// AllFormats is the expansion of "all", in write order.
var AllFormats = []Format{FormatJSON, FormatCSV, FormatXLSX, FormatHTML}

// ParseFormats accepts a comma separated list of formats or "all".
// "excel" is an alias for xlsx.
func ParseFormats(v string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(v, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		switch f {
		case "":
			continue
		case FormatAll:
			return append([]Format(nil), AllFormats...), nil
		case "excel":
			f = FormatXLSX
		case FormatJSON, FormatCSV, FormatXLSX, FormatHTML:
		default:
			return nil, fmt.Errorf("unknown report format: %q", part)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no report format given")
	}
	return out, nil
}

// BaseName is the file stem used for a report written at t.
func BaseName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s", prefix, t.Format("20060102_150405"))
}

// Generate writes rep in every format under outDir using baseName as the
// file stem. Formats are written concurrently; the returned paths follow
// the order of formats.
func Generate(ctx context.Context, outDir, baseName string, formats []Format, rep *Report) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("report: mkdir: %w", err)
	}

	paths := make([][]string, len(formats))
	g, gCtx := errgroup.WithContext(ctx)
	for i, f := range formats {
		i, f := i, f
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			base := filepath.Join(outDir, baseName)
			switch f {
			case FormatJSON:
				path := base + ".json"
				if err := WriteJSON(path, rep); err != nil {
					return fmt.Errorf("json report: %w", err)
				}
				paths[i] = []string{path}
			case FormatCSV:
				written, err := WriteCSV(base, rep)
				if err != nil {
					return fmt.Errorf("csv report: %w", err)
				}
				paths[i] = written
			case FormatXLSX:
				path := base + ".xlsx"
				if err := WriteXLSX(path, rep); err != nil {
					return fmt.Errorf("xlsx report: %w", err)
				}
				paths[i] = []string{path}
			case FormatHTML:
				path := base + ".html"
				if err := WriteHTML(path, rep); err != nil {
					return fmt.Errorf("html report: %w", err)
				}
				paths[i] = []string{path}
			default:
				return fmt.Errorf("unknown report format: %q", f)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, p := range paths {
		out = append(out, p...)
	}
	return out, nil
}
