package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pbp-backend/internal/cache"
	"pbp-backend/internal/middleware"
	"pbp-backend/internal/models"
	"pbp-backend/internal/services"
)

type PrisonHandler struct {
	Service *services.PrisonService
}

func NewPrisonHandler(s *services.PrisonService) *PrisonHandler {
	return &PrisonHandler{Service: s}
}

func (h *PrisonHandler) CreatePrison(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePrisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	prison, err := h.Service.CreatePrison(r.Context(), &req, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(prison)
}

func (h *PrisonHandler) GetPrison(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	prison, err := h.Service.GetPrison(r.Context(), id)
	if err != nil {
		http.Error(w, "Prison not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prison)
}

func (h *PrisonHandler) ListPrisons(w http.ResponseWriter, r *http.Request) {
	// Facility list changes rarely; serve the cached copy when available
	if data, ok := cache.GetCachedPrisonList(r.Context()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	prisons, err := h.Service.ListPrisons(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(prisons)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cache.CachePrisonList(r.Context(), payload)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func (h *PrisonHandler) UpdatePrison(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	var req models.UpdatePrisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	prison, err := h.Service.UpdatePrison(r.Context(), id, &req, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prison)
}

func (h *PrisonHandler) DeletePrison(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	if err := h.Service.DeletePrison(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
