package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
	"github.com/abhisek/practiz/internal/session"
)

// CookieName holds the URL-escaped username.
const CookieName = "practiz_user"

func setUserCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    url.QueryEscape(name),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearUserCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// deskFor returns the desk named by the request cookie, logging the user
// back in if the server restarted since. A bad cookie is cleared.
func (s *Server) deskFor(w http.ResponseWriter, r *http.Request) *practice.Desk {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	name, err := url.QueryUnescape(c.Value)
	if err != nil {
		clearUserCookie(w)
		return nil
	}
	desk, err := s.svc.Login(name)
	if err != nil {
		log.Printf("cookie login %q: %v", name, err)
		clearUserCookie(w)
		return nil
	}
	return desk
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"questions": s.svc.Bank().Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	desk := s.deskFor(w, r)
	if desk == nil {
		s.render(w, http.StatusOK, "login", newPageData(""))
		return
	}
	s.renderDashboard(w, desk, http.StatusOK, "")
}

func (s *Server) renderDashboard(w http.ResponseWriter, desk *practice.Desk, status int, warning string) {
	data := newPageData(desk.Username())
	data.Overview = desk.Overview()
	data.Setup = desk.Setup()
	data.Active = desk.Snapshot().Phase != session.PhaseNotStarted
	data.Warning = warning
	s.render(w, status, "dashboard", data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("username")
	desk, err := s.svc.Login(name)
	if err != nil {
		data := newPageData("")
		data.Error = "Please enter a name without slashes or \"..\"."
		if !errors.Is(err, progress.ErrInvalidUsername) {
			data.Error = err.Error()
		}
		s.render(w, http.StatusBadRequest, "login", data)
		return
	}
	setUserCookie(w, desk.Username())
	redirect(w, r, "/")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if desk := s.deskFor(w, r); desk != nil {
		if err := s.svc.Logout(desk.Username()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	clearUserCookie(w)
	redirect(w, r, "/")
}

// parseSetup reads the dashboard form. Counts outside the offered range are
// rejected here; the engine itself only requires at least one question.
func parseSetup(r *http.Request) (session.Config, error) {
	if err := r.ParseForm(); err != nil {
		return session.Config{}, err
	}

	count, err := strconv.Atoi(r.PostForm.Get("count"))
	if err != nil {
		return session.Config{}, fmt.Errorf("question count must be a number")
	}
	if count < session.MinCount || count > session.MaxCount {
		return session.Config{}, fmt.Errorf("question count must be between %d and %d", session.MinCount, session.MaxCount)
	}

	mode, err := session.ParseMode(r.PostForm.Get("mode"))
	if err != nil {
		return session.Config{}, err
	}

	cfg := session.Config{
		Count:   count,
		Mode:    mode,
		Systems: r.PostForm["system"],
	}
	for _, raw := range r.PostForm["filter"] {
		f, err := session.ParseFilter(raw)
		if err != nil {
			return session.Config{}, err
		}
		cfg.Filters = append(cfg.Filters, f)
	}
	return cfg, nil
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	desk := s.deskFor(w, r)
	if desk == nil {
		redirect(w, r, "/")
		return
	}

	cfg, err := parseSetup(r)
	if err == nil {
		err = desk.Configure(cfg)
	}
	if err == nil {
		err = desk.Start()
	}
	if err != nil {
		var insufficient *session.ErrInsufficientPool
		status, warning := http.StatusUnprocessableEntity, err.Error()
		switch {
		case errors.As(err, &insufficient):
			warning = fmt.Sprintf("Not enough questions for these filters: %d match, %d requested.",
				insufficient.Available, insufficient.Requested)
		case errors.Is(err, session.ErrAlreadyStarted):
			status, warning = http.StatusConflict, "A session is already open. Resume or discard it first."
		}
		s.renderDashboard(w, desk, status, warning)
		return
	}
	redirect(w, r, "/session")
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	desk := s.deskFor(w, r)
	if desk == nil {
		redirect(w, r, "/")
		return
	}

	snap := desk.Snapshot()
	if snap.SaveErr != nil {
		log.Printf("save progress for %s: %v", desk.Username(), snap.SaveErr)
	}
	switch snap.Phase {
	case session.PhaseNotStarted:
		redirect(w, r, "/")
		return
	case session.PhaseOver:
		sum, err := desk.Summary()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data := newPageData(desk.Username())
		data.Summary = sum
		s.render(w, http.StatusOK, "summary", data)
		return
	}

	data := newPageData(desk.Username())
	data.Snap = snap
	if snap.Timed {
		data.Refresh = int((snap.Remaining+time.Second-1)/time.Second) + 1
	}
	s.render(w, http.StatusOK, "question", data)
}

// sessionAction runs fn against the caller's desk and returns to the
// session page. Errors caused by a stale page (the session moved on or
// ended) are not reported; the redirect shows the current state.
func (s *Server) sessionAction(fn func(r *http.Request, d *practice.Desk) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		desk := s.deskFor(w, r)
		if desk == nil {
			redirect(w, r, "/")
			return
		}
		if err := fn(r, desk); err != nil && !staleErr(err) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		redirect(w, r, "/session")
	}
}

func staleErr(err error) bool {
	return errors.Is(err, session.ErrSessionOver) ||
		errors.Is(err, session.ErrNotCurrent) ||
		errors.Is(err, session.ErrAlreadyAnswered) ||
		errors.Is(err, session.ErrNotStarted)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(func(r *http.Request, d *practice.Desk) error {
		choice := r.PostFormValue("choice")
		if choice == "" {
			return nil
		}
		_, err := d.Submit(questions.ID(r.PostFormValue("qid")), choice)
		return err
	})(w, r)
}

func (s *Server) handleConfidence(w http.ResponseWriter, r *http.Request) {
	level, err := progress.ParseConfidence(r.PostFormValue("level"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.sessionAction(func(_ *http.Request, d *practice.Desk) error {
		return d.SetConfidence(level)
	})(w, r)
}

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(func(_ *http.Request, d *practice.Desk) error {
		_, err := d.ToggleMark()
		return err
	})(w, r)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.sessionAction(func(r *http.Request, d *practice.Desk) error {
		// A resubmitted form must not skip a second question.
		if qid := r.PostFormValue("qid"); qid != "" {
			if q := d.Snapshot().Question; q == nil || string(q.ID) != qid {
				return nil
			}
		}
		_, err := d.Next()
		return err
	})(w, r)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	desk := s.deskFor(w, r)
	if desk == nil {
		redirect(w, r, "/")
		return
	}
	if err := desk.NewSession(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirect(w, r, "/")
}
