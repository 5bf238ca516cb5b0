package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/nkravets/eshop/internal/models"
	service "github.com/nkravets/eshop/internal/services"
	pkgerrors "github.com/nkravets/eshop/pkg/errors"
)

type Categories struct {
	service service.CatalogService
}

func NewCategories(s service.CatalogService) *Categories {
	return &Categories{service: s}
}

func (h *Categories) Register(api *mux.Router) {
	api.HandleFunc("/categories", h.List).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := decodeJSON(r, &category); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.service.CreateCategory(r.Context(), &category); err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	var category models.Category
	if err := decodeJSON(r, &category); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	category.ID = id

	if err := h.service.UpdateCategory(r.Context(), &category); err != nil {
		if errors.Is(err, pkgerrors.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, pkgerrors.ErrCategoryNotFound) {
			writeMessage(w, http.StatusNotFound, false, "the category has not been found")
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeMessage(w, http.StatusOK, true, "the category has been deleted")
}
