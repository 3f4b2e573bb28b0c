package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/mbakken/norbank/internal/app"
	"github.com/mbakken/norbank/internal/auth"
	"github.com/mbakken/norbank/internal/common"
	"github.com/mbakken/norbank/internal/interfaces"
	"github.com/mbakken/norbank/internal/models"
)

// --- Service mocks ---

type mockMarketService struct {
	getExchangeQuotes       func(ctx context.Context, exchange string) ([]*models.MarketQuote, error)
	getCachedExchangeQuotes func(ctx context.Context, exchange string) ([]*models.MarketQuote, error)
	getQuote                func(ctx context.Context, symbol string, force bool) (*models.MarketQuote, error)
	renderSparkline         func(ctx context.Context, symbol string) ([]byte, error)
}

func (m *mockMarketService) GetExchangeQuotes(ctx context.Context, exchange string) ([]*models.MarketQuote, error) {
	return m.getExchangeQuotes(ctx, exchange)
}
func (m *mockMarketService) GetCachedExchangeQuotes(ctx context.Context, exchange string) ([]*models.MarketQuote, error) {
	return m.getCachedExchangeQuotes(ctx, exchange)
}
func (m *mockMarketService) GetQuote(ctx context.Context, symbol string, force bool) (*models.MarketQuote, error) {
	return m.getQuote(ctx, symbol, force)
}
func (m *mockMarketService) RefreshSymbol(_ context.Context, _ string) error { return nil }
func (m *mockMarketService) InitExchange(_ context.Context, _ string) error  { return nil }
func (m *mockMarketService) RenderSparkline(ctx context.Context, symbol string) ([]byte, error) {
	return m.renderSparkline(ctx, symbol)
}

type mockWatchlistService struct {
	add     func(ctx context.Context, userID string, asset *models.WatchedAsset) (*models.WatchedAsset, error)
	toggle  func(ctx context.Context, userID, symbol string) (*models.WatchedAsset, error)
	remove  func(ctx context.Context, userID, symbol string) error
	getUser func(ctx context.Context, userID string) ([]*models.WatchedAssetView, error)
}

func (m *mockWatchlistService) AddWatchedAsset(ctx context.Context, userID string, asset *models.WatchedAsset) (*models.WatchedAsset, error) {
	return m.add(ctx, userID, asset)
}
func (m *mockWatchlistService) ToggleFavorite(ctx context.Context, userID, symbol string) (*models.WatchedAsset, error) {
	return m.toggle(ctx, userID, symbol)
}
func (m *mockWatchlistService) RemoveWatchedAsset(ctx context.Context, userID, symbol string) error {
	return m.remove(ctx, userID, symbol)
}
func (m *mockWatchlistService) GetUserWatchedAssets(ctx context.Context, userID string) ([]*models.WatchedAssetView, error) {
	return m.getUser(ctx, userID)
}

type mockBankingService struct {
	getCompany       func(ctx context.Context, userID string) (*models.Company, error)
	listAccounts     func(ctx context.Context, userID string) ([]*models.Account, error)
	listTransactions func(ctx context.Context, userID, accountID string, limit int) ([]*models.Transaction, error)
	listInvoices     func(ctx context.Context, userID string) ([]*models.Invoice, error)
	createInvoice    func(ctx context.Context, userID string, input interfaces.CreateInvoiceInput) (*models.Invoice, error)
}

func (m *mockBankingService) GetCompanyForUser(ctx context.Context, userID string) (*models.Company, error) {
	return m.getCompany(ctx, userID)
}
func (m *mockBankingService) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	return m.listAccounts(ctx, userID)
}
func (m *mockBankingService) ListTransactions(ctx context.Context, userID, accountID string, limit int) ([]*models.Transaction, error) {
	return m.listTransactions(ctx, userID, accountID, limit)
}
func (m *mockBankingService) ListInvoices(ctx context.Context, userID string) ([]*models.Invoice, error) {
	return m.listInvoices(ctx, userID)
}
func (m *mockBankingService) CreateInvoice(ctx context.Context, userID string, input interfaces.CreateInvoiceInput) (*models.Invoice, error) {
	return m.createInvoice(ctx, userID, input)
}

// --- Storage mocks (only the user store is exercised by handlers) ---

type memUserStore struct {
	users map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (s *memUserStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	return s.users[userID], nil
}

func (s *memUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) SaveUser(_ context.Context, user *models.User) error {
	s.users[user.UserID] = user
	return nil
}

type mockStorage struct {
	users *memUserStore
}

func (m *mockStorage) MarketStore() interfaces.MarketStore       { return nil }
func (m *mockStorage) WatchlistStore() interfaces.WatchlistStore { return nil }
func (m *mockStorage) UserStore() interfaces.UserStore           { return m.users }
func (m *mockStorage) BankStore() interfaces.BankStore           { return nil }
func (m *mockStorage) Close() error                              { return nil }

// --- Harness ---

type testServer struct {
	*Server
	storage *mockStorage
}

func newTestServer() *testServer {
	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Auth.JWTSecret = "test-secret-key"

	storage := &mockStorage{users: newMemUserStore()}
	a := &app.App{
		Config:      cfg,
		Logger:      logger,
		Storage:     storage,
		StartupTime: time.Now(),
	}
	return &testServer{
		Server:  &Server{app: a, logger: logger},
		storage: storage,
	}
}

func (ts *testServer) withMarket(svc interfaces.MarketService) *testServer {
	ts.app.MarketService = svc
	return ts
}

func (ts *testServer) withWatchlist(svc interfaces.WatchlistService) *testServer {
	ts.app.WatchlistService = svc
	return ts
}

func (ts *testServer) withBanking(svc interfaces.BankingService) *testServer {
	ts.app.BankingService = svc
	return ts
}

// handler returns the full middleware-wrapped handler.
func (ts *testServer) handler() http.Handler {
	mux := http.NewServeMux()
	ts.registerRoutes(mux)
	return applyMiddleware(mux, ts.logger, ts.app.Config)
}

// do runs a request through the middleware stack.
func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler().ServeHTTP(rec, req)
	return rec
}

// bearerFor mints a valid token for the given user.
func (ts *testServer) bearerFor(userID, name string) string {
	token, err := auth.SignToken(auth.Identity{UserID: userID, Name: name, Method: auth.MethodDev}, &ts.app.Config.Auth)
	if err != nil {
		panic(err)
	}
	return "Bearer " + token
}
