package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/store"
)

// CategoryInput defines the expected input for creating or renaming a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (h *HTTPHandler) decodeCategory(w http.ResponseWriter, r *http.Request) (*CategoryInput, bool) {
	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return nil, false
	}
	defer r.Body.Close()

	input.Name = strings.TrimSpace(input.Name)
	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return nil, false
	}
	return &input, true
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeCategory(w, r)
	if !ok {
		return
	}

	created, err := h.categoryStore.CreateCategory(r.Context(), &domain.Category{Name: input.Name})
	if err != nil {
		if errors.Is(err, store.ErrCategoryNameExists) {
			h.respondWithError(w, http.StatusConflict, store.ErrCategoryNameExists.Error())
			return
		}
		h.logger.Error("CreateCategory store operation failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	params, page := pageParams(r)

	categories, totalCount, err := h.categoryStore.ListCategories(r.Context(), params)
	if err != nil {
		h.logger.Error("ListCategories store operation failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	h.respondWithJSON(w, http.StatusOK, newListResponse(categories, page, params.Limit, totalCount))
}

func (h *HTTPHandler) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(r, "categoryId")
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	category, err := h.categoryStore.GetCategoryByID(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
			return
		}
		h.logger.Error("GetCategoryByID store operation failed", zap.Stringer("id", categoryID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve category")
		return
	}

	h.respondWithJSON(w, http.StatusOK, category)
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(r, "categoryId")
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid category ID format")
		return
	}
	input, ok := h.decodeCategory(w, r)
	if !ok {
		return
	}

	updated, err := h.categoryStore.UpdateCategory(r.Context(), &domain.Category{ID: categoryID, Name: input.Name})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrCategoryNotFound):
			h.respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
		case errors.Is(err, store.ErrCategoryNameExists):
			h.respondWithError(w, http.StatusConflict, store.ErrCategoryNameExists.Error())
		default:
			h.logger.Error("UpdateCategory store operation failed", zap.Stringer("id", categoryID), zap.Error(err))
			h.respondWithError(w, http.StatusInternalServerError, "Failed to update category")
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(r, "categoryId")
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	if err := h.categoryStore.DeleteCategory(r.Context(), categoryID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
			return
		}
		h.logger.Error("DeleteCategory store operation failed", zap.Stringer("id", categoryID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
