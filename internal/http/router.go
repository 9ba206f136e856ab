package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pbp-backend/internal/handlers"
	"pbp-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	personHandler *handlers.PersonHandler,
	prisonHandler *handlers.PrisonHandler,
	letterHandler *handlers.LetterHandler,
	reportHandler *handlers.ReportHandler,
	adminActionLogHandler *handlers.AdminActionLogHandler,
	totpHandler *handlers.TOTPHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/verify-totp", totpHandler.VerifyTOTP).Methods("POST")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.ListUsers)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.CreateUser)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.GetUser)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.UpdateUser)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.DeleteUser)).ServeHTTP).Methods("DELETE")
	usersAPI.HandleFunc("/{id}/toggle-active", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.ToggleActiveStatus)).ServeHTTP).Methods("PATCH")

	// Protected API routes - People
	peopleAPI := r.PathPrefix("/api/people").Subrouter()
	peopleAPI.Use(authMiddleware.Authenticate)
	peopleAPI.HandleFunc("", personHandler.ListPeople).Methods("GET")
	peopleAPI.HandleFunc("", personHandler.CreatePerson).Methods("POST")
	peopleAPI.HandleFunc("/csv", reportHandler.ExportPeopleCSV).Methods("GET")
	peopleAPI.HandleFunc("/csv", reportHandler.ImportPeopleCSV).Methods("POST")
	peopleAPI.HandleFunc("/unresolved-assignments", authMiddleware.RequireAdmin(http.HandlerFunc(reportHandler.UnresolvedAssignments)).ServeHTTP).Methods("GET")
	peopleAPI.HandleFunc("/{id}", personHandler.GetPerson).Methods("GET")
	peopleAPI.HandleFunc("/{id}", personHandler.UpdatePerson).Methods("PUT")
	peopleAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(personHandler.DeletePerson)).ServeHTTP).Methods("DELETE")
	peopleAPI.HandleFunc("/{id}/summary", personHandler.GetSummary).Methods("GET")
	peopleAPI.HandleFunc("/{id}/prison", personHandler.AssignPrison).Methods("POST")
	peopleAPI.HandleFunc("/{id}/prison-history", personHandler.PrisonHistory).Methods("GET")
	peopleAPI.HandleFunc("/{id}/mailing-address", personHandler.MailingAddress).Methods("GET")

	// Protected API routes - Prisons
	prisonsAPI := r.PathPrefix("/api/prisons").Subrouter()
	prisonsAPI.Use(authMiddleware.Authenticate)
	prisonsAPI.HandleFunc("", prisonHandler.ListPrisons).Methods("GET")
	prisonsAPI.HandleFunc("", prisonHandler.CreatePrison).Methods("POST")
	prisonsAPI.HandleFunc("/csv", reportHandler.ExportPrisonsCSV).Methods("GET")
	prisonsAPI.HandleFunc("/csv", reportHandler.ImportPrisonsCSV).Methods("POST")
	prisonsAPI.HandleFunc("/{id}", prisonHandler.GetPrison).Methods("GET")
	prisonsAPI.HandleFunc("/{id}", prisonHandler.UpdatePrison).Methods("PUT")
	prisonsAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(prisonHandler.DeletePrison)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Letters
	lettersAPI := r.PathPrefix("/api/letters").Subrouter()
	lettersAPI.Use(authMiddleware.Authenticate)
	lettersAPI.HandleFunc("", letterHandler.ListLetters).Methods("GET")
	lettersAPI.HandleFunc("", letterHandler.CreateLetter).Methods("POST")
	lettersAPI.HandleFunc("/counts", letterHandler.CountByStage).Methods("GET")
	lettersAPI.HandleFunc("/labels", reportHandler.MailingLabelsPDF).Methods("GET")
	lettersAPI.HandleFunc("/bulk-fulfill", letterHandler.BulkFulfill).Methods("POST")
	lettersAPI.HandleFunc("/bulk-discard", letterHandler.BulkDiscard).Methods("POST")
	lettersAPI.HandleFunc("/bulk-stage1", letterHandler.BulkMarkStage1).Methods("POST")
	lettersAPI.HandleFunc("/{id}", letterHandler.GetLetter).Methods("GET")
	lettersAPI.HandleFunc("/{id}", letterHandler.UpdateLetter).Methods("PUT")
	lettersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(letterHandler.DeleteLetter)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Admin Action Logs (admin only)
	actionLogsAPI := r.PathPrefix("/api/action-logs").Subrouter()
	actionLogsAPI.Use(authMiddleware.Authenticate)
	actionLogsAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(adminActionLogHandler.ListActionLogs)).ServeHTTP).Methods("GET")

	// Protected API routes - 2FA management
	totpAPI := r.PathPrefix("/api/totp").Subrouter()
	totpAPI.Use(authMiddleware.Authenticate)
	totpAPI.HandleFunc("/setup", totpHandler.SetupTOTP).Methods("POST")
	totpAPI.HandleFunc("/enable", totpHandler.EnableTOTP).Methods("POST")
	totpAPI.HandleFunc("/disable", totpHandler.DisableTOTP).Methods("POST")
	totpAPI.HandleFunc("/status", totpHandler.GetStatus).Methods("GET")
	totpAPI.HandleFunc("/backup-codes", totpHandler.RegenerateBackupCodes).Methods("POST")

	// Health endpoints (no auth required - deployment health checks)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
