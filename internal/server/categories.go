package server

import (
	"net/http"

	"hilltop/internal/schema"
)

func (s *Service) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.Categories(r.Context())
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch categories")
		return
	}

	s.writeJSON(w, r, http.StatusOK, nonNil(categories))
}

func (s *Service) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch category")
		return
	}

	category, err := s.categories.Category(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch category")
		return
	}

	s.writeJSON(w, r, http.StatusOK, category)
}

func (s *Service) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeBody(w, r, schema.DecodeCategoryForm)
	if err != nil {
		s.writeError(w, r, err, "Failed to create category")
		return
	}

	input, err := schema.Category(fields, schema.Create)
	if err != nil {
		s.writeError(w, r, err, "Failed to create category")
		return
	}

	category, err := s.categories.CreateCategory(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err, "Failed to create category")
		return
	}

	s.writeJSON(w, r, http.StatusCreated, category)
}

func (s *Service) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, "Failed to update category")
		return
	}

	fields, err := decodeBody(w, r, schema.DecodeCategoryForm)
	if err != nil {
		s.writeError(w, r, err, "Failed to update category")
		return
	}

	input, err := schema.Category(fields, schema.Update)
	if err != nil {
		s.writeError(w, r, err, "Failed to update category")
		return
	}

	category, err := s.categories.UpdateCategory(r.Context(), id, input)
	if err != nil {
		s.writeError(w, r, err, "Failed to update category")
		return
	}

	s.writeJSON(w, r, http.StatusOK, category)
}

func (s *Service) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, "Failed to delete category")
		return
	}

	deleted, err := s.categories.DeleteCategory(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "Failed to delete category")
		return
	}

	if !deleted {
		s.writeMessage(w, r, http.StatusNotFound, "Category not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, messageResponse{Message: "Category deleted successfully"})
}

// nonNil keeps empty lists encoding as [] instead of null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
