package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"slices"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/session"
	"github.com/abhisek/practiz/internal/ui/layout"
)

var templateFuncs = template.FuncMap{
	"pct": func(f float64) string {
		return fmt.Sprintf("%.0f%%", f*100)
	},
	"clock": layout.FormatClock,
	"letter": func(i int) string {
		return string(rune('A' + i))
	},
	"inc": func(i int) int {
		return i + 1
	},
	"has": func(list []string, s string) bool {
		return slices.Contains(list, s)
	},
	"hasFilter": func(list []session.Filter, f session.Filter) bool {
		return slices.Contains(list, f)
	},
}

// pageData is the single view model shared by every template.
type pageData struct {
	User    string
	Error   string
	Warning string

	// Dashboard.
	Overview    *practice.Overview
	Setup       session.Config
	Active      bool // a session is running or awaiting review
	Modes       []session.Mode
	Filters     []session.Filter
	MinCount    int
	MaxCount    int
	Confidences []progress.Confidence

	// Question page.
	Snap    practice.Snapshot
	Refresh int // seconds until the page reloads itself; 0 disables

	// Summary page.
	Summary *session.SessionSummary
}

func newPageData(user string) pageData {
	return pageData{
		User:        user,
		Modes:       session.Modes,
		Filters:     session.Filters,
		MinCount:    session.MinCount,
		MaxCount:    session.MaxCount,
		Confidences: progress.ConfidenceLevels,
	}
}

// render executes the named template into a buffer so a failure can still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
