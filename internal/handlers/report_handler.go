package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"pbp-backend/internal/middleware"
	"pbp-backend/internal/models"
	"pbp-backend/internal/services"
	"pbp-backend/internal/timeutil"
)

type ReportHandler struct {
	Reports *services.ReportService
	Imports *services.CSVImportService
}

func NewReportHandler(reports *services.ReportService, imports *services.CSVImportService) *ReportHandler {
	return &ReportHandler{Reports: reports, Imports: imports}
}

// ExportPeopleCSV streams the people export
func (h *ReportHandler) ExportPeopleCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Reports.GeneratePeopleCSV(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("people-%s.csv", timeutil.Now().Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}

// ImportPeopleCSV applies an uploaded people CSV. The response lists per-row
// errors; a 200 with errors means the rest of the file was applied.
func (h *ReportHandler) ImportPeopleCSV(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file upload required (multipart field 'file')", http.StatusBadRequest)
		return
	}
	defer file.Close()

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	result, err := h.Imports.ImportPeople(r.Context(), file, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ExportPrisonsCSV streams the facility export
func (h *ReportHandler) ExportPrisonsCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Reports.GeneratePrisonsCSV(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("prisons-%s.csv", timeutil.Now().Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}

// ImportPrisonsCSV applies an uploaded prisons CSV
func (h *ReportHandler) ImportPrisonsCSV(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file upload required (multipart field 'file')", http.StatusBadRequest)
		return
	}
	defer file.Close()

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	result, err := h.Imports.ImportPrisons(r.Context(), file, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// UnresolvedAssignments lists people whose imported legacy prison reference
// never turned into a facility assignment
func (h *ReportHandler) UnresolvedAssignments(w http.ResponseWriter, r *http.Request) {
	people, err := h.Reports.ListUnresolvedAssignments(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if people == nil {
		people = []*models.Person{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(people)
}

// MailingLabelsPDF streams address labels for the pending letter queue
func (h *ReportHandler) MailingLabelsPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.Reports.GenerateMailingLabelsPDF(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("labels-%s.pdf", timeutil.Now().Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}
