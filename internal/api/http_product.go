package api

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/store"
)

const maxImageUploadBytes = 10 << 20

// ProductInput is the body of product create and update requests, sent either as
// JSON or as multipart form fields next to an optional "image" file part.
// On update every field is optional; a nil Categories leaves the list unchanged.
type ProductInput struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=4096"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Categories  []string `json:"categories" validate:"omitempty,unique,dive,uuid"`

	image *multipart.FileHeader
}

var errBadPrice = errors.New("price must be a number")

func (h *HTTPHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*ProductInput, bool) {
	input, err := readProductInput(r)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return nil, false
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
	}
	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return nil, false
	}
	if input.image != nil && h.images == nil {
		h.respondWithError(w, http.StatusBadRequest, "Image uploads are disabled")
		return nil, false
	}
	return input, true
}

func readProductInput(r *http.Request) (*ProductInput, error) {
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var input ProductInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return nil, err
		}
		return &input, nil
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		return nil, err
	}
	form := r.MultipartForm
	input := &ProductInput{}
	if v, ok := form.Value["name"]; ok && len(v) > 0 {
		input.Name = &v[0]
	}
	if v, ok := form.Value["description"]; ok && len(v) > 0 {
		input.Description = &v[0]
	}
	if v, ok := form.Value["price"]; ok && len(v) > 0 {
		price, err := strconv.ParseFloat(strings.TrimSpace(v[0]), 64)
		if err != nil {
			return nil, errBadPrice
		}
		input.Price = &price
	}
	if values, ok := form.Value["categories"]; ok {
		input.Categories = []string{}
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					input.Categories = append(input.Categories, part)
				}
			}
		}
	}
	if files := form.File["image"]; len(files) > 0 {
		input.image = files[0]
	}
	return input, nil
}

// uploadImage stores the image part, if any, and returns its URL.
func (h *HTTPHandler) uploadImage(w http.ResponseWriter, r *http.Request, input *ProductInput) (*string, bool) {
	if input.image == nil {
		return nil, true
	}
	f, err := input.image.Open()
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid image upload")
		return nil, false
	}
	defer f.Close()

	url, err := h.images.Upload(r.Context(), input.image.Filename, input.image.Header.Get("Content-Type"), f)
	if err != nil {
		h.logger.Error("product image upload failed", zap.String("filename", input.image.Filename), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to upload product image")
		return nil, false
	}
	return &url, true
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	if input.Name == nil || *input.Name == "" {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: name is required")
		return
	}
	if input.Price == nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: price is required")
		return
	}
	categories, ok := parseUUIDList(input.Categories)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	imageURL, ok := h.uploadImage(w, r, input)
	if !ok {
		return
	}

	product := &domain.Product{
		Name:        *input.Name,
		Description: input.Description,
		Price:       *input.Price,
		Categories:  categories,
		ImageURL:    imageURL,
	}
	created, err := h.productStore.CreateProduct(r.Context(), product)
	if err != nil {
		h.logger.Error("CreateProduct store operation failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, page := pageParams(r)

	products, totalCount, err := h.productStore.ListProducts(r.Context(), params)
	if err != nil {
		h.logger.Error("ListProducts store operation failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	h.respondWithJSON(w, http.StatusOK, newListResponse(products, page, params.Limit, totalCount))
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(r, "productId")
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.productStore.GetProductView(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		h.logger.Error("GetProductByID store operation failed", zap.Stringer("id", productID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	h.respondWithJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(r, "productId")
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	input, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	if input.Name != nil && *input.Name == "" {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: name must not be empty")
		return
	}

	product, err := h.productStore.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		h.logger.Error("UpdateProduct failed to load product", zap.Stringer("id", productID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Categories != nil {
		categories, ok := parseUUIDList(input.Categories)
		if !ok {
			h.respondWithError(w, http.StatusBadRequest, "Invalid category ID format")
			return
		}
		product.Categories = categories
	}
	imageURL, ok := h.uploadImage(w, r, input)
	if !ok {
		return
	}
	if imageURL != nil {
		product.ImageURL = imageURL
	}

	updated, err := h.productStore.UpdateProduct(r.Context(), product)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		h.logger.Error("UpdateProduct store operation failed", zap.Stringer("id", productID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	h.respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(r, "productId")
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.productStore.DeleteProduct(r.Context(), productID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		h.logger.Error("DeleteProduct store operation failed", zap.Stringer("id", productID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
