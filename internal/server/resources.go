package server

import (
	"net/http"
	"strconv"
	"strings"

	"hilltop/internal/schema"
	"hilltop/pkg/types"
)

const maxFeaturedLimit = 100

func (s *Service) handleListResources(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter types.ResourceFilter

	// an empty or zero categoryId means no category filter
	if raw := strings.TrimSpace(query.Get("categoryId")); raw != "" && raw != "0" {
		id, err := parsePositiveInt(raw)
		if err != nil {
			s.writeMessage(w, r, http.StatusBadRequest, "Invalid categoryId")
			return
		}
		filter.CategoryID = id
	}

	filter.Search = strings.TrimSpace(query.Get("search"))

	resources, err := s.resources.Resources(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch resources")
		return
	}

	s.writeJSON(w, r, http.StatusOK, nonNil(resources))
}

func (s *Service) handleFeaturedResources(w http.ResponseWriter, r *http.Request) {
	limit := types.DefaultFeaturedLimit

	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxFeaturedLimit {
			s.writeMessage(w, r, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	resources, err := s.resources.FeaturedResources(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch featured resources")
		return
	}

	s.writeJSON(w, r, http.StatusOK, nonNil(resources))
}

func (s *Service) handleGetResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch resource")
		return
	}

	resource, err := s.resources.Resource(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch resource")
		return
	}

	s.writeJSON(w, r, http.StatusOK, resource)
}

func (s *Service) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeBody(w, r, schema.DecodeResourceForm)
	if err != nil {
		s.writeError(w, r, err, "Failed to create resource")
		return
	}

	input, err := schema.Resource(fields, schema.Create)
	if err != nil {
		s.writeError(w, r, err, "Failed to create resource")
		return
	}

	resource, err := s.resources.CreateResource(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err, "Failed to create resource")
		return
	}

	s.writeJSON(w, r, http.StatusCreated, resource)
}

func (s *Service) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, "Failed to update resource")
		return
	}

	fields, err := decodeBody(w, r, schema.DecodeResourceForm)
	if err != nil {
		s.writeError(w, r, err, "Failed to update resource")
		return
	}

	input, err := schema.Resource(fields, schema.Update)
	if err != nil {
		s.writeError(w, r, err, "Failed to update resource")
		return
	}

	resource, err := s.resources.UpdateResource(r.Context(), id, input)
	if err != nil {
		s.writeError(w, r, err, "Failed to update resource")
		return
	}

	s.writeJSON(w, r, http.StatusOK, resource)
}

func (s *Service) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, "Failed to delete resource")
		return
	}

	deleted, err := s.resources.DeleteResource(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "Failed to delete resource")
		return
	}

	if !deleted {
		s.writeMessage(w, r, http.StatusNotFound, "Resource not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, messageResponse{Message: "Resource deleted successfully"})
}
