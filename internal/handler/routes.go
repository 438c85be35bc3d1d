package handler

import (
	"log/slog"
	"net/http"

	"github.com/segyhp/loanshrk/pkg/response"

	"github.com/gorilla/mux"
)

func NewRouter(ledgerHandler *LedgerHandler, healthHandler *HealthHandler, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/borrowers", ledgerHandler.ListBorrowers).Methods("GET")
	api.HandleFunc("/borrowers/{borrowerId}", ledgerHandler.GetBorrower).Methods("GET")
	api.HandleFunc("/borrowers/{borrowerId}/payments", ledgerHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/borrowers/{borrowerId}/payment-prompts", ledgerHandler.OpenPaymentPrompt).Methods("POST")
	api.HandleFunc("/payment-prompts/{token}", ledgerHandler.SubmitPaymentPrompt).Methods("POST")
	api.HandleFunc("/payment-prompts/{token}", ledgerHandler.CancelPaymentPrompt).Methods("DELETE")
	api.HandleFunc("/loans", ledgerHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/stats", ledgerHandler.GetStats).Methods("GET")

	// CORS wraps the router so preflight requests are answered before method matching
	return response.CORSMiddleware(router)
}
