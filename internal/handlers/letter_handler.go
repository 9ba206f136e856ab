package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pbp-backend/internal/middleware"
	"pbp-backend/internal/models"
	"pbp-backend/internal/repositories"
	"pbp-backend/internal/services"
)

type LetterHandler struct {
	Service *services.LetterService
}

func NewLetterHandler(s *services.LetterService) *LetterHandler {
	return &LetterHandler{Service: s}
}

func (h *LetterHandler) CreateLetter(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	letter, err := h.Service.CreateLetter(r.Context(), &req, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(letter)
}

func (h *LetterHandler) GetLetter(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	letter, err := h.Service.GetLetter(r.Context(), id)
	if err != nil {
		http.Error(w, "Letter not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(letter)
}

// ListLetters supports ?person_id=, ?workflow_stage=, ?limit= and ?offset=
func (h *LetterHandler) ListLetters(w http.ResponseWriter, r *http.Request) {
	var filter repositories.LetterFilter
	filter.PersonID, _ = strconv.Atoi(r.URL.Query().Get("person_id"))
	filter.WorkflowStage = r.URL.Query().Get("workflow_stage")
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	letters, err := h.Service.ListLetters(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(letters)
}

func (h *LetterHandler) UpdateLetter(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	var req models.UpdateLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	letter, err := h.Service.UpdateLetter(r.Context(), id, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(letter)
}

func (h *LetterHandler) DeleteLetter(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	if err := h.Service.DeleteLetter(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkFulfill marks the selected letters as sent
func (h *LetterHandler) BulkFulfill(w http.ResponseWriter, r *http.Request) {
	h.bulkAction(w, r, h.Service.BulkFulfill)
}

// BulkDiscard marks the selected letters as discarded
func (h *LetterHandler) BulkDiscard(w http.ResponseWriter, r *http.Request) {
	h.bulkAction(w, r, h.Service.BulkDiscard)
}

// BulkMarkStage1 returns the selected letters to the pending queue
func (h *LetterHandler) BulkMarkStage1(w http.ResponseWriter, r *http.Request) {
	h.bulkAction(w, r, h.Service.BulkMarkStage1)
}

func (h *LetterHandler) bulkAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, letterIDs []int, adminUserID int, ipAddress string) (*models.BulkActionResult, error)) {
	var req models.BulkLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.LetterIDs) == 0 {
		http.Error(w, "letter_ids is required", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	result, err := action(r.Context(), req.LetterIDs, userID, getIPAddress(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// CountByStage returns letter counts per workflow stage
func (h *LetterHandler) CountByStage(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Service.CountByStage(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}
