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

type Users struct {
	service service.UserService
}

func NewUsers(s service.UserService) *Users {
	return &Users{service: s}
}

func (h *Users) Register(api *mux.Router) {
	api.HandleFunc("/users/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/users/register", h.RegisterUser).Methods(http.MethodPost)
	api.HandleFunc("/users", h.List).Methods(http.MethodGet)
	api.HandleFunc("/users/get/count", h.Count).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.Delete).Methods(http.MethodDelete)
}

type registerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func (h *Users) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		IsAdmin:   req.IsAdmin,
		Street:    req.Street,
		Apartment: req.Apartment,
		Zip:       req.Zip,
		City:      req.City,
		Country:   req.Country,
	}

	if err := h.service.Register(r.Context(), user, req.Password); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrEmailExists):
			writeError(w, http.StatusConflict, err)
		case errors.Is(err, pkgerrors.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Users) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user": req.Email, "token": token})
}

func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidInput)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, false, "user not found")
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeMessage(w, http.StatusOK, true, "the user is deleted")
}

func (h *Users) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.UserCount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"userCount": count})
}
