package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/nkravets/eshop/internal/infrastructure/upload"
	"github.com/nkravets/eshop/internal/models"
	service "github.com/nkravets/eshop/internal/services"
	pkgerrors "github.com/nkravets/eshop/pkg/errors"
)

const maxUploadSize = 32 << 20

type Products struct {
	service service.CatalogService
	uploads *upload.Pipeline
}

func NewProducts(s service.CatalogService, uploads *upload.Pipeline) *Products {
	return &Products{service: s, uploads: uploads}
}

func (h *Products) Register(api *mux.Router) {
	api.HandleFunc("/products", h.List).Methods(http.MethodGet)
	api.HandleFunc("/products", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/products/get/count", h.Count).Methods(http.MethodGet)
	api.HandleFunc("/products/get/featured/{count}", h.Featured).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", h.Delete).Methods(http.MethodDelete)
}

// List supports filtering by a comma-separated categories query parameter.
func (h *Products) List(w http.ResponseWriter, r *http.Request) {
	var categoryIDs []int64
	if raw := r.URL.Query().Get("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
				return
			}
			categoryIDs = append(categoryIDs, id)
		}
	}

	products, err := h.service.ListProducts(r.Context(), categoryIDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Products) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create accepts a multipart form carrying the product fields and an image
// part. The image goes through the upload pipeline before anything is
// persisted; a rejected image leaves no file and no record behind.
func (h *Products) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("no image in the request"))
		return
	}
	defer file.Close()

	stored, err := h.uploads.Accept(r.Context(), upload.Candidate{
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
		Body:        file,
	})
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) {
			writeError(w, http.StatusBadRequest, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	product, err := productFromForm(r)
	if err != nil {
		h.uploads.Discard(r.Context(), stored.Filename)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	product.Image = stored.URL

	if err := h.service.CreateProduct(r.Context(), product); err != nil {
		// The image was already persisted; don't leave it orphaned.
		h.uploads.Discard(r.Context(), stored.Filename)
		if errors.Is(err, pkgerrors.ErrInvalidCategory) {
			writeError(w, http.StatusBadRequest, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Products) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	var product models.Product
	if err := decodeJSON(r, &product); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	product.ID = id

	if err := h.service.UpdateProduct(r.Context(), &product); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, pkgerrors.ErrProductNotFound):
			writeError(w, http.StatusNotFound, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Products) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, pkgerrors.ErrProductNotFound) {
			writeMessage(w, http.StatusNotFound, false, "the product has not been found")
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeMessage(w, http.StatusOK, true, "the product has been deleted")
}

func (h *Products) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.ProductCount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *Products) Featured(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(mux.Vars(r)["count"])
	if err != nil || count < 0 {
		writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	products, err := h.service.FeaturedProducts(r.Context(), count)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func productFromForm(r *http.Request) (*models.Product, error) {
	product := &models.Product{
		Name:            r.FormValue("name"),
		Description:     r.FormValue("description"),
		RichDescription: r.FormValue("richDescription"),
		Brand:           r.FormValue("brand"),
	}
	if product.Name == "" {
		return nil, errors.New("name is required")
	}

	var err error
	if product.CategoryID, err = strconv.ParseInt(r.FormValue("category"), 10, 64); err != nil {
		return nil, errors.New("category is required")
	}
	if v := r.FormValue("price"); v != "" {
		if product.Price, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, errors.New("invalid price")
		}
	}
	if v := r.FormValue("countInStock"); v != "" {
		stock, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, errors.New("invalid countInStock")
		}
		product.CountInStock = int32(stock)
	}
	if v := r.FormValue("rating"); v != "" {
		if product.Rating, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, errors.New("invalid rating")
		}
	}
	if v := r.FormValue("numReviews"); v != "" {
		reviews, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, errors.New("invalid numReviews")
		}
		product.NumReviews = int32(reviews)
	}
	if v := r.FormValue("isFeatured"); v != "" {
		if product.IsFeatured, err = strconv.ParseBool(v); err != nil {
			return nil, errors.New("invalid isFeatured")
		}
	}
	return product, nil
}
