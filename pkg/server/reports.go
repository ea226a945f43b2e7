package server

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type reportEntry struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

// ListReports returns the JSON reports in the report dir, newest first.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	reports := make([]reportEntry, 0)
	entries, err := os.ReadDir(s.opts.ReportDir)
	if err != nil && !os.IsNotExist(err) {
		ResponseMsg(w, http.StatusInternalServerError, "Error loading history: "+err.Error())
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		reports = append(reports, reportEntry{Filename: e.Name(), Timestamp: info.ModTime(), Size: info.Size()})
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Timestamp.Equal(reports[j].Timestamp) {
			return reports[i].Filename > reports[j].Filename
		}
		return reports[i].Timestamp.After(reports[j].Timestamp)
	})
	ResponseJson(w, reports)
}

// Download serves one report file as an attachment. Only plain file names
// inside the report dir are served.
func (s *Server) Download(w http.ResponseWriter, r *http.Request) {
	name, _ := GetArg(r, "name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		ResponseMsg(w, http.StatusNotFound, "report not found")
		return
	}
	path := filepath.Join(s.opts.ReportDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		ResponseMsg(w, http.StatusNotFound, "report not found")
		return
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeFile(w, r, path)
}
