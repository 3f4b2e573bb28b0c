package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
	"github.com/mbakken/norbank/internal/models"
)

// BankStore persists the demo banking domain. Ledger entries live in the
// bank_transaction table; "transaction" collides with SurrealQL.
type BankStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewBankStore(db *surrealdb.DB, logger *common.Logger) *BankStore {
	return &BankStore{
		db:     db,
		logger: logger,
	}
}

// --- Companies ---

func (s *BankStore) GetCompanyByUser(ctx context.Context, userID string) (*models.Company, error) {
	sql := "SELECT * FROM company WHERE user_id = $user LIMIT 1"
	vars := map[string]any{"user": userID}

	results, err := surrealdb.Query[[]models.Company](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query company: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *BankStore) SaveCompany(ctx context.Context, company *models.Company) error {
	return s.upsert(ctx, "company", company.ID, company)
}

// --- Accounts ---

func (s *BankStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := surrealdb.Select[models.Account](ctx, s.db, surrealmodels.NewRecordID("account", accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to select account: %w", err)
	}
	if account == nil || account.ID == "" {
		return nil, nil
	}
	return account, nil
}

func (s *BankStore) ListAccounts(ctx context.Context, companyID string) ([]*models.Account, error) {
	sql := "SELECT * FROM account WHERE company_id = $company ORDER BY number ASC"
	vars := map[string]any{"company": companyID}

	results, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return collect(results), nil
}

func (s *BankStore) SaveAccount(ctx context.Context, account *models.Account) error {
	return s.upsert(ctx, "account", account.ID, account)
}

// --- Transactions ---

func (s *BankStore) ListTransactions(ctx context.Context, accountID string, limit int) ([]*models.Transaction, error) {
	sql := "SELECT * FROM bank_transaction WHERE account_id = $account ORDER BY date DESC"
	vars := map[string]any{"account": accountID}
	if limit > 0 {
		sql += " LIMIT $limit"
		vars["limit"] = limit
	}

	results, err := surrealdb.Query[[]models.Transaction](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return collect(results), nil
}

func (s *BankStore) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	return s.upsert(ctx, "bank_transaction", tx.ID, tx)
}

// --- Invoices ---

func (s *BankStore) ListInvoices(ctx context.Context, companyID string) ([]*models.Invoice, error) {
	sql := "SELECT * FROM invoice WHERE company_id = $company ORDER BY created_at DESC"
	vars := map[string]any{"company": companyID}

	results, err := surrealdb.Query[[]models.Invoice](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return collect(results), nil
}

func (s *BankStore) SaveInvoice(ctx context.Context, invoice *models.Invoice) error {
	return s.upsert(ctx, "invoice", invoice.ID, invoice)
}

// upsert writes a record by table and key with the standard retry loop.
func (s *BankStore) upsert(ctx context.Context, table, key string, data any) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(table, key), "data": data}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save %s record after retries: %w", table, lastErr)
}

// Compile-time check
var _ interfaces.BankStore = (*BankStore)(nil)

// collect flattens a query result into a pointer slice.
func collect[T any](results *[]surrealdb.QueryResult[[]T]) []*T {
	if results == nil || len(*results) == 0 {
		return nil
	}
	var mapped []*T
	for i := range (*results)[0].Result {
		mapped = append(mapped, &(*results)[0].Result[i])
	}
	return mapped
}
