package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/user/aclsec/pkg/acl"
	"github.com/user/aclsec/pkg/engine"
	"github.com/user/aclsec/pkg/logger"
	"github.com/user/aclsec/pkg/report"
)

var allowedExtensions = map[string]bool{".txt": true, ".conf": true}

func allowedFile(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

type analyzeResponse struct {
	ID            string           `json:"id"`
	Filename      string           `json:"filename"`
	TotalRules    int              `json:"total_rules"`
	TotalFindings int              `json:"total_findings"`
	HighCount     int              `json:"high_count"`
	MediumCount   int              `json:"medium_count"`
	LowCount      int              `json:"low_count"`
	Findings      []engine.Finding `json:"findings"`
	ReportFiles   []string         `json:"report_files"`
}

func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ResponseMsg(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		ResponseMsg(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("config_file")
	if err != nil {
		ResponseMsg(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	filename := filepath.Base(filepath.Clean("/" + header.Filename))
	if filename == "" || filename == "/" || filename == "." {
		ResponseMsg(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !allowedFile(filename) {
		ResponseMsg(w, http.StatusBadRequest, "Invalid file type. Please upload a .txt or .conf file.")
		return
	}

	formats := s.opts.Formats
	if v := r.FormValue("format"); v != "" {
		if formats, err = report.ParseFormats(v); err != nil {
			ResponseMsg(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	// the id suffix keeps uploads within the same second apart
	id := uuid.NewString()
	stem := s.now().Format("20060102_150405") + "_" + id[:8]
	saved := filepath.Join(s.opts.UploadDir, stem+"_"+filename)
	if err := saveUpload(saved, file); err != nil {
		logger.Errorf("saving upload %s: %v", saved, err)
		ResponseMsg(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	rules, err := acl.ParseFile(saved)
	if err != nil {
		ResponseMsg(w, http.StatusInternalServerError, fmt.Sprintf("Error analyzing configuration: %v", err))
		return
	}
	findings := s.evaluator.Evaluate(rules)
	analysis := engine.NewAnalysis(filename, rules, findings)
	analysis.ID = id
	s.store.Add(analysis)

	rep := report.FromAnalysis(analysis)
	paths, err := report.Generate(r.Context(), s.opts.ReportDir, "report_"+stem, formats, rep)
	if err != nil {
		ResponseMsg(w, http.StatusInternalServerError, fmt.Sprintf("Error writing reports: %v", err))
		return
	}
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		files = append(files, filepath.Base(p))
	}

	sum := analysis.Summary()
	logger.Infof("Analyzed %s: %d rules, %d findings", filename, sum.TotalRules, sum.TotalFindings)
	ResponseJson(w, analyzeResponse{
		ID:            analysis.ID,
		Filename:      filename,
		TotalRules:    sum.TotalRules,
		TotalFindings: sum.TotalFindings,
		HighCount:     sum.High,
		MediumCount:   sum.Medium,
		LowCount:      sum.Low,
		Findings:      findings,
		ReportFiles:   files,
	})
}

func saveUpload(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func (s *Server) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	type item struct {
		ID      string         `json:"id"`
		Source  string         `json:"source"`
		Summary engine.Summary `json:"summary"`
	}
	items := make([]item, 0, s.store.Len())
	for _, a := range s.store.List() {
		items = append(items, item{ID: a.ID, Source: a.Source, Summary: a.Summary()})
	}
	ResponseJson(w, items)
}

func (s *Server) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, _ := GetArg(r, "id")
	a, ok := s.store.Get(id)
	if !ok {
		ResponseMsg(w, http.StatusNotFound, "analysis not found")
		return
	}
	ResponseJson(w, report.FromAnalysis(a))
}
