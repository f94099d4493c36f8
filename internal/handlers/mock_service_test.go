package handlers

import (
	"context"
	"net/http"
	"sync"

	"fintrack/internal/models"
	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	mu sync.Mutex

	signUpSess  service.Session
	signUpToken string
	signUpErr   error
	signInSess  service.Session
	signInToken string
	signInErr   error
	logoutErr   error

	// tokens maps bearer tokens to the sessions ParseToken resolves.
	tokens map[string]service.Session

	lastSignUpUsername string
	lastSignUpPassword string
	lastSignInUsername string
	lastSignInPassword string
	lastLogoutID       string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (service.Session, string, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpSess, m.signUpToken, m.signUpErr
}

func (m *mockAuth) SignIn(_ context.Context, username, password string) (service.Session, string, error) {
	m.lastSignInUsername = username
	m.lastSignInPassword = password
	return m.signInSess, m.signInToken, m.signInErr
}

func (m *mockAuth) Logout(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLogoutID = sessionID
	if m.logoutErr != nil {
		return m.logoutErr
	}
	for tok, s := range m.tokens {
		if s.ID == sessionID {
			delete(m.tokens, tok)
		}
	}
	return nil
}

func (m *mockAuth) ParseToken(token string) (service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.tokens[token]
	if !ok {
		return service.Session{}, service.ErrInvalidToken
	}
	return s, nil
}

// revoke drops a token as if its session had logged out elsewhere.
func (m *mockAuth) revoke(token string) {
	m.mu.Lock()
	delete(m.tokens, token)
	m.mu.Unlock()
}

type mockLedger struct {
	ledger    models.Ledger
	listErr   error
	added     models.FinancialRecord
	addErr    error
	deleted   models.FinancialRecord
	deleteErr error
	importErr error

	lastUser    string
	lastInput   service.RecordInput
	lastIndex   int
	lastImport  []models.FinancialRecord
	deleteCalls int
}

func (m *mockLedger) List(_ context.Context, username string) (models.Ledger, error) {
	m.lastUser = username
	return m.ledger, m.listErr
}

func (m *mockLedger) Add(_ context.Context, username string, in service.RecordInput) (models.FinancialRecord, error) {
	m.lastUser = username
	m.lastInput = in
	return m.added, m.addErr
}

func (m *mockLedger) Delete(_ context.Context, username string, index int) (models.FinancialRecord, error) {
	m.lastUser = username
	m.lastIndex = index
	m.deleteCalls++
	return m.deleted, m.deleteErr
}

func (m *mockLedger) Import(_ context.Context, username string, records []models.FinancialRecord) (int, error) {
	m.lastUser = username
	m.lastImport = records
	return len(records), m.importErr
}

type mockAnalysis struct {
	mu      sync.Mutex
	summary models.Summary
	err     error
	calls   int
}

func (m *mockAnalysis) Summary(context.Context, string) (models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.summary, m.err
}

type mockTaxonomy struct{}

func (mockTaxonomy) Categories() models.Taxonomy { return models.DefaultTaxonomy() }

// ---- Shared Test Helpers ----

const testToken = "tok123"

var testSession = service.Session{ID: "sess-1", Username: "alice"}

// newAuthedMock returns an auth mock that accepts testToken.
func newAuthedMock() *mockAuth {
	return &mockAuth{tokens: map[string]service.Session{testToken: testSession}}
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
