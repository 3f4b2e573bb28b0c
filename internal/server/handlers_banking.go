package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbakken/norbank/internal/interfaces"
)

// handleCompany handles GET /api/company.
func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	company, err := s.app.BankingService.GetCompanyForUser(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Company error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, company)
}

// handleAccountList handles GET /api/accounts.
func (s *Server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	accounts, err := s.app.BankingService.ListAccounts(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Accounts error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
	})
}

// routeAccounts dispatches /api/accounts/{id}/transactions.
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/accounts/")

	if accountID, ok := strings.CutSuffix(rest, "/transactions"); ok {
		s.handleTransactions(w, r, accountID)
		return
	}
	WriteError(w, http.StatusNotFound, "Not found")
}

// handleTransactions handles GET /api/accounts/{id}/transactions?limit=N.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request, accountID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	txs, err := s.app.BankingService.ListTransactions(r.Context(), userID, accountID, limit)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Transactions error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
	})
}

// handleInvoices handles GET and POST /api/invoices.
func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleInvoiceList(w, r)
	case http.MethodPost:
		s.handleInvoiceCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleInvoiceList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	invoices, err := s.app.BankingService.ListInvoices(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Invoices error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"invoices": invoices,
	})
}

func (s *Server) handleInvoiceCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		AccountID string          `json:"account_id"`
		Recipient string          `json:"recipient"`
		Amount    decimal.Decimal `json:"amount"`
		Currency  string          `json:"currency"`
		DueDate   time.Time       `json:"due_date"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	invoice, err := s.app.BankingService.CreateInvoice(r.Context(), userID, interfaces.CreateInvoiceInput{
		AccountID: req.AccountID,
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Currency:  req.Currency,
		DueDate:   req.DueDate,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invoice error: %v", err))
		return
	}

	WriteJSON(w, http.StatusCreated, invoice)
}
