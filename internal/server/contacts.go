package server

import (
	"net/http"

	"hilltop/internal/schema"
)

type contactCreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func (s *Service) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeBody(w, r, schema.DecodeContactForm)
	if err != nil {
		s.metrics.ContactSubmitted(submittedSubject(fields), false)
		s.writeError(w, r, err, "Failed to send contact message")
		return
	}

	input, err := schema.Contact(fields)
	if err != nil {
		s.metrics.ContactSubmitted(submittedSubject(fields), false)
		s.writeError(w, r, err, "Failed to send contact message")
		return
	}

	contact, err := s.contacts.CreateContact(r.Context(), input)
	if err != nil {
		s.metrics.ContactSubmitted(*input.Subject, false)
		s.writeError(w, r, err, "Failed to send contact message")
		return
	}

	s.metrics.ContactSubmitted(contact.Subject, true)

	s.writeJSON(w, r, http.StatusCreated, contactCreatedResponse{
		Message: "Contact message sent successfully",
		ID:      contact.ID,
	})
}

func (s *Service) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.contacts.Contacts(r.Context())
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch contacts")
		return
	}

	s.writeJSON(w, r, http.StatusOK, nonNil(contacts))
}

// submittedSubject labels a rejected submission with whatever subject it
// carried.
func submittedSubject(fields schema.Fields) string {
	if subject, ok := fields["subject"].(string); ok && subject != "" {
		return subject
	}
	return "unknown"
}
