package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"hilltop/internal/schema"
	"hilltop/pkg/types"
)

const maxBodyBytes = 10 << 20

type errorResponse struct {
	Message string             `json:"message"`
	Errors  []types.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var errInvalidID = errors.New("invalid id")

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).WithField("request_id", requestIDFromContext(r.Context())).Error("failed to encode response")
	}
}

func (s *Service) writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, r, status, errorResponse{Message: message})
}

// writeError maps err onto a status and body. Errors without a known kind are
// logged and answered with fallback, their text never reaches the client.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		verr     *types.ValidationError
		maxBytes *http.MaxBytesError
	)

	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Message: "Invalid data", Errors: verr.Errors})
	case errors.As(err, &maxBytes):
		s.writeMessage(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, schema.ErrMalformedBody):
		s.writeMessage(w, r, http.StatusBadRequest, "Malformed request body")
	case errors.Is(err, errInvalidID):
		s.writeMessage(w, r, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, types.ErrCategoryNotFound):
		s.writeMessage(w, r, http.StatusNotFound, "Category not found")
	case errors.Is(err, types.ErrResourceNotFound):
		s.writeMessage(w, r, http.StatusNotFound, "Resource not found")
	case errors.Is(err, types.ErrNotFound):
		s.writeMessage(w, r, http.StatusNotFound, "Not found")
	case errors.Is(err, types.ErrUnknownCategory):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Message: "Invalid data",
			Errors:  []types.FieldError{{Path: "categoryId", Message: "Category does not exist"}},
		})
	case errors.Is(err, types.ErrCategoryInUse):
		s.writeMessage(w, r, http.StatusConflict, "Category has resources and cannot be deleted")
	case errors.Is(err, types.ErrCategoryNameTaken):
		s.writeMessage(w, r, http.StatusConflict, "Category name already exists")
	case errors.Is(err, types.ErrConflict), errors.Is(err, types.ErrReferentialIntegrity):
		s.writeMessage(w, r, http.StatusConflict, "Conflict")
	default:
		s.logger.WithError(err).WithField("request_id", requestIDFromContext(r.Context())).Error(fallback)
		s.writeMessage(w, r, http.StatusInternalServerError, fallback)
	}
}

// decodeBody reads a JSON or form-urlencoded body into Fields. fromForm
// converts the posted form values for the target record.
func decodeBody(w http.ResponseWriter, r *http.Request, fromForm func(url.Values) (schema.Fields, error)) (schema.Fields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			var maxBytes *http.MaxBytesError
			if errors.As(err, &maxBytes) {
				return nil, maxBytes
			}
			return nil, errors.Join(schema.ErrMalformedBody, err)
		}
		return fromForm(r.PostForm)
	}

	return schema.DecodeJSON(r.Body)
}

func pathID(r *http.Request) (int64, error) {
	return parsePositiveInt(r.PathValue("id"))
}

func parsePositiveInt(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
