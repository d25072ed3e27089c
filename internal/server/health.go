package server

import (
	"fmt"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeHealth(w, r, s.config.ServiceName)
}

func (s *Service) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	s.writeHealth(w, r, s.config.ServiceName+" API")
}

func (s *Service) writeHealth(w http.ResponseWriter, r *http.Request, service string) {
	s.writeJSON(w, r, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Service:   service,
	})
}

type apiNotFoundResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Path    string `json:"path"`
	Method  string `json:"method"`
}

func (s *Service) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusNotFound, apiNotFoundResponse{
		Message: fmt.Sprintf("The endpoint %s %s is not available", r.Method, r.URL.Path),
		Error:   "API endpoint not found",
		Path:    r.URL.Path,
		Method:  r.Method,
	})
}

func (s *Service) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeMessage(w, r, http.StatusNotFound, "Not found")
}
