// Package banking exposes the demo banking domain: companies, accounts,
// transactions and invoice payments, all scoped to the calling user.
package banking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
	"github.com/mbakken/norbank/internal/models"
)

// Compile-time interface check
var _ interfaces.BankingService = (*Service)(nil)

// Service implements BankingService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// NewService creates a new banking service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// GetCompanyForUser returns the user's company. First access synthesizes a
// demo company with seeded accounts and transaction history, so every
// authenticated user lands in a populated workspace.
func (s *Service) GetCompanyForUser(ctx context.Context, userID string) (*models.Company, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	store := s.storage.BankStore()
	company, err := store.GetCompanyByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company != nil {
		return company, nil
	}

	company, err = s.seedCompany(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo company: %w", err)
	}
	return company, nil
}

// ListAccounts returns the accounts of the user's company.
func (s *Service) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	company, err := s.GetCompanyForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.storage.BankStore().ListAccounts(ctx, company.ID)
}

// ListTransactions returns an account's transactions, newest first. The
// account must belong to the user's company.
func (s *Service) ListTransactions(ctx context.Context, userID, accountID string, limit int) ([]*models.Transaction, error) {
	account, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return s.storage.BankStore().ListTransactions(ctx, account.ID, limit)
}

// ListInvoices returns the invoices of the user's company, newest first.
func (s *Service) ListInvoices(ctx context.Context, userID string) ([]*models.Invoice, error) {
	company, err := s.GetCompanyForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.storage.BankStore().ListInvoices(ctx, company.ID)
}

// CreateInvoice registers an invoice payment from one of the user's
// accounts. The invoice is stored as pending alongside a pending debit
// transaction on the paying account.
func (s *Service) CreateInvoice(ctx context.Context, userID string, input interfaces.CreateInvoiceInput) (*models.Invoice, error) {
	if input.Recipient == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	account, err := s.ownedAccount(ctx, userID, input.AccountID)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = account.Currency
	}

	now := s.now().UTC()
	invoice := &models.Invoice{
		ID:        uuid.NewString(),
		CompanyID: account.CompanyID,
		AccountID: account.ID,
		Recipient: input.Recipient,
		Amount:    input.Amount,
		Currency:  currency,
		DueDate:   input.DueDate,
		Status:    models.StatusPending,
		CreatedAt: now,
	}

	store := s.storage.BankStore()
	if err := store.SaveInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	tx := &models.Transaction{
		ID:           uuid.NewString(),
		AccountID:    account.ID,
		Date:         now,
		Description:  "Invoice payment to " + input.Recipient,
		Amount:       input.Amount.Neg(),
		Currency:     currency,
		Status:       models.StatusPending,
		Counterparty: input.Recipient,
	}
	if err := store.SaveTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record invoice transaction: %w", err)
	}

	s.logger.Info().
		Str("user", userID).
		Str("account", account.ID).
		Str("recipient", input.Recipient).
		Str("amount", input.Amount.String()).
		Msg("Invoice registered")

	return invoice, nil
}

// ownedAccount resolves an account and verifies it belongs to the user's
// company.
func (s *Service) ownedAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}

	company, err := s.GetCompanyForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	account, err := s.storage.BankStore().GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil || account.CompanyID != company.ID {
		return nil, fmt.Errorf("account not found: %s", accountID)
	}
	return account, nil
}

// seedCompany creates the demo company, accounts and transaction history
// for a first-time user.
func (s *Service) seedCompany(ctx context.Context, userID string) (*models.Company, error) {
	store := s.storage.BankStore()
	now := s.now().UTC()

	company := &models.Company{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      "Fjellheim Consulting AS",
		OrgNumber: "923 456 789",
		CreatedAt: now,
	}
	if err := store.SaveCompany(ctx, company); err != nil {
		return nil, err
	}

	accounts := []*models.Account{
		{
			ID:        uuid.NewString(),
			CompanyID: company.ID,
			Name:      "Driftskonto",
			Number:    "1503.44.39821",
			Balance:   decimal.NewFromFloat(482350.75),
			Currency:  "NOK",
			CreatedAt: now,
		},
		{
			ID:        uuid.NewString(),
			CompanyID: company.ID,
			Name:      "Skattetrekkskonto",
			Number:    "1503.44.39822",
			Balance:   decimal.NewFromFloat(96400.00),
			Currency:  "NOK",
			CreatedAt: now,
		},
	}
	for _, account := range accounts {
		if err := store.SaveAccount(ctx, account); err != nil {
			return nil, err
		}
	}

	for _, tx := range seedTransactions(accounts[0].ID, now) {
		if err := store.SaveTransaction(ctx, tx); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Str("user", userID).Str("company", company.Name).Msg("Demo company seeded")
	return company, nil
}

// seedTransactions builds a plausible recent history for the operating
// account.
func seedTransactions(accountID string, now time.Time) []*models.Transaction {
	entries := []struct {
		daysAgo      int
		description  string
		counterparty string
		amount       float64
		status       string
	}{
		{1, "Card purchase", "Kaffebrenneriet Oslo", -186.00, models.StatusPending},
		{2, "Invoice payment", "Telia Norge AS", -1249.00, models.StatusBooked},
		{5, "Customer payment", "Nordvik Eiendom AS", 68500.00, models.StatusBooked},
		{8, "Salary run", "Payroll", -124300.00, models.StatusBooked},
		{12, "Invoice payment", "Regnskapshuset AS", -8750.00, models.StatusBooked},
		{15, "Customer payment", "Bergen Havn KF", 42000.00, models.StatusBooked},
		{21, "Office rent", "Storgata Eiendom AS", -18500.00, models.StatusBooked},
	}

	txs := make([]*models.Transaction, len(entries))
	for i, e := range entries {
		txs[i] = &models.Transaction{
			ID:           uuid.NewString(),
			AccountID:    accountID,
			Date:         now.AddDate(0, 0, -e.daysAgo),
			Description:  e.description,
			Amount:       decimal.NewFromFloat(e.amount),
			Currency:     "NOK",
			Status:       e.status,
			Counterparty: e.counterparty,
		}
	}
	return txs
}
