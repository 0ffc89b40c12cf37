package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	headerMapID          = "X-Map-ID"
	headerFollowerStatus = "X-Follower-Status"
)

type failurePage struct {
	Fields []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "index.html", http.StatusOK, nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	log := zap.L().With(zap.String("request_id", middleware.GetReqID(r.Context())))

	form, err := parseRegisterForm(r)
	if err != nil {
		var fe *formError
		if errors.As(err, &fe) {
			log.Debug("web: rejected form", zap.Strings("fields", fe.Fields))
			s.renderPage(w, r, "failure.html", http.StatusBadRequest, failurePage{Fields: fe.Fields})
			return
		}
		log.Error("web: form validation failed", zap.Error(err))
		s.renderPage(w, r, "failure.html", http.StatusInternalServerError, failurePage{})
		return
	}

	m, err := s.builder.Build(r.Context(), form.Name, form.Token)
	if err != nil {
		if r.Context().Err() != nil {
			log.Info("web: client went away", zap.String("screen_name", form.Name))
			return
		}
		log.Error("web: build map", zap.String("screen_name", form.Name), zap.Error(err))
		s.renderPage(w, r, "failure.html", http.StatusInternalServerError, failurePage{})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(m.HTML)))
	w.Header().Set(headerMapID, m.ID)
	w.Header().Set(headerFollowerStatus, string(m.Status))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(m.HTML); err != nil {
		log.Warn("web: write map", zap.String("map_id", m.ID), zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// renderPage executes a page template into a buffer so a template error can
// still produce a clean 500 response.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		zap.L().Error("web: render page",
			zap.String("page", name),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
