package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/segyhp/loanshrk/internal/domain"
	"github.com/segyhp/loanshrk/internal/logging"
	"github.com/segyhp/loanshrk/internal/notify"
	"github.com/segyhp/loanshrk/internal/service"
	customError "github.com/segyhp/loanshrk/pkg/errors"
	"github.com/segyhp/loanshrk/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

type LedgerHandler struct {
	ledger    *service.LedgerService
	prompts   *service.PromptBook
	validator *validator.Validate
}

func NewLedgerHandler(ledger *service.LedgerService, prompts *service.PromptBook) *LedgerHandler {
	return &LedgerHandler{
		ledger:    ledger,
		prompts:   prompts,
		validator: newValidator(),
	}
}

// newValidator lets numeric tags such as gt=0 apply to decimal fields
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ListBorrowers returns every borrower, newest first, with the summary figures
func (h *LedgerHandler) ListBorrowers(w http.ResponseWriter, r *http.Request) {
	borrowers := h.ledger.All()

	views := make([]domain.BorrowerView, 0, len(borrowers))
	for _, b := range borrowers {
		views = append(views, domain.NewBorrowerView(b))
	}

	response.Success(w, domain.LedgerResponse{
		Borrowers: views,
		Stats:     service.ComputeStats(borrowers),
	})
}

func (h *LedgerHandler) GetBorrower(w http.ResponseWriter, r *http.Request) {
	borrowerID, ok := borrowerIDFromPath(w, r)
	if !ok {
		return
	}

	borrower, err := h.ledger.Get(borrowerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Success(w, domain.BorrowerResponse{Borrower: domain.NewBorrowerView(borrower)})
}

func (h *LedgerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.ledger.Stats())
}

func (h *LedgerHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	borrower, err := h.ledger.AddLoan(r.Context(), request.Name, request.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	notice := notify.LoanAdded(borrower, borrower.Created)
	response.Created(w, domain.BorrowerResponse{
		Borrower: domain.NewBorrowerView(borrower),
		Notice:   &domain.NoticeResponse{Title: notice.Title, Description: notice.Description},
	})
}

func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	borrowerID, ok := borrowerIDFromPath(w, r)
	if !ok {
		return
	}

	var request domain.RecordPaymentRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	borrower, err := h.ledger.RecordPayment(r.Context(), borrowerID, request.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Success(w, paymentResponse(borrower))
}

// OpenPaymentPrompt is the first half of payment entry: it hands back a token
// the client submits once the user has typed an amount.
func (h *LedgerHandler) OpenPaymentPrompt(w http.ResponseWriter, r *http.Request) {
	borrowerID, ok := borrowerIDFromPath(w, r)
	if !ok {
		return
	}

	prompt, err := h.prompts.Open(r.Context(), borrowerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Created(w, prompt)
}

func (h *LedgerHandler) SubmitPaymentPrompt(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var request domain.SubmitPromptRequest
	if !h.decode(w, r, &request) {
		return
	}

	borrower, err := h.prompts.Submit(r.Context(), token, request.Value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Success(w, paymentResponse(borrower))
}

func (h *LedgerHandler) CancelPaymentPrompt(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	if !h.prompts.Cancel(token) {
		writeServiceError(w, r, customError.WrapPromptNotFound(token))
		return
	}

	response.NoContent(w)
}

func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.CodedError(w, http.StatusBadRequest, customError.ErrCodeInvalidInput, "Invalid request body", err)
		return false
	}
	return true
}

func (h *LedgerHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if !h.decode(w, r, dst) {
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		response.CodedError(w, http.StatusBadRequest, customError.ErrCodeInvalidInput, "Validation failed", err)
		return false
	}
	return true
}

func paymentResponse(borrower *domain.Borrower) domain.BorrowerResponse {
	resp := domain.BorrowerResponse{Borrower: domain.NewBorrowerView(borrower)}
	if n := len(borrower.Payments); n > 0 {
		last := borrower.Payments[n-1]
		notice := notify.PaymentRecorded(borrower, last.Amount, last.Date)
		resp.Notice = &domain.NoticeResponse{Title: notice.Title, Description: notice.Description}
	}
	return resp
}

func borrowerIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["borrowerId"]
	borrowerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.CodedError(w, http.StatusBadRequest, customError.ErrCodeInvalidInput, "Invalid borrower ID", err)
		return 0, false
	}
	return borrowerID, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, customError.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, customError.ErrLoanNotFound), errors.Is(err, customError.ErrPromptNotFound):
		status = http.StatusNotFound
	case errors.Is(err, customError.ErrLoanAlreadyClosed):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			logging.FieldPath, r.URL.Path,
			logging.FieldError, err)
	}

	message := "Internal server error"
	var be *customError.BusinessError
	if errors.As(err, &be) {
		message = be.Message
	}

	// wrapped causes stay in the logs
	response.CodedError(w, status, customError.CodeOf(err), message, nil)
}
