package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"caseportal/internal/adapters/http/middleware"
	"caseportal/internal/adapters/persistence/models"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/config"
	"caseportal/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureMailer records OTP codes instead of dispatching them
type captureMailer struct {
	codes []string
	fail  bool
}

func (m *captureMailer) Send(_, code string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.codes = append(m.codes, code)
	return nil
}

type testServer struct {
	app    *fiber.App
	store  *repositories.MemoryStore
	mailer *captureMailer
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			TempTokenMins:    10,
			SessionTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "Lax"},
	}

	store := repositories.NewMemoryStore()
	mailer := &captureMailer{}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, Deps{
		AppRepo:      store.Applications(),
		QuestionRepo: store.SecurityQuestions(),
		AdminRepo:    store.Admins(),
		Mailer:       mailer,
	}, cfg)

	return &testServer{app: app, store: store, mailer: mailer, cfg: cfg}
}

func (s *testServer) seedApplicant(t *testing.T) *models.Application {
	t.Helper()
	app := &models.Application{
		UserName:                "alice",
		Password:                "secret123",
		Email:                   "alice@example.com",
		ApplicationType:         "Work Permit",
		ApplicationNumber:       "W0001234",
		ApplicantName:           "Alice Example",
		DateOfSubmission:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:                  "Pending",
		UniqueClientIdentifier:  "uci-alice",
		BiometricsNumber:        "B-1234",
		BiometricsEnrolmentDate: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		BiometricsExpiryDate:    time.Date(2035, 3, 2, 0, 0, 0, 0, time.UTC),
		BiometricsStatus:        "NotCompleted",
	}
	require.NoError(t, s.store.Applications().Create(context.Background(), app))
	return app
}

func (s *testServer) seedAdmin(t *testing.T) {
	t.Helper()
	hash, err := password.Hash("admin-pass-1")
	require.NoError(t, err)
	require.NoError(t, s.store.Admins().Create(context.Background(), &models.Admin{
		UserName: "root",
		Email:    "root@example.com",
		Password: hash,
	}))
}

// do issues a JSON request carrying the given cookies
func (s *testServer) do(t *testing.T, method, path string, body any, cookies map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestLoginFlowEndToEnd(t *testing.T) {
	s := newTestServer(t)
	s.seedApplicant(t)

	// Step 1: password check sets the temp cookie and mails an OTP
	resp := s.do(t, "POST", "/api/v1/auth/login", fiber.Map{
		"user_name": "alice",
		"password":  "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tempToken := cookieValue(resp, middleware.TempTokenCookie)
	require.NotEmpty(t, tempToken, "login sets the temp cookie")
	require.Len(t, s.mailer.codes, 1)

	// The temp cookie does not open session-guarded routes
	resp = s.do(t, "GET", "/api/v1/auth/me", nil, map[string]string{
		middleware.TokenCookie: tempToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Step 2: OTP verify swaps the temp cookie for the session cookie
	resp = s.do(t, "POST", "/api/v1/auth/otp/verify", fiber.Map{
		"code": s.mailer.codes[0],
	}, map[string]string{
		middleware.TempTokenCookie: tempToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sessionToken := cookieValue(resp, middleware.TokenCookie)
	require.NotEmpty(t, sessionToken, "verify sets the session cookie")

	// Step 3: the session cookie opens the protected resource
	resp = s.do(t, "GET", "/api/v1/auth/me", nil, map[string]string{
		middleware.TokenCookie: sessionToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	application := data["application"].(map[string]any)
	assert.Equal(t, "alice", application["user_name"])
	_, hasPassword := application["password"]
	assert.False(t, hasPassword, "password never serialized")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newTestServer(t)
	s.seedApplicant(t)

	resp := s.do(t, "POST", "/api/v1/auth/login", fiber.Map{
		"user_name": "alice",
		"password":  "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, cookieValue(resp, middleware.TempTokenCookie))
}

func TestVerifyRejectsWrongOTP(t *testing.T) {
	s := newTestServer(t)
	s.seedApplicant(t)

	resp := s.do(t, "POST", "/api/v1/auth/login", fiber.Map{
		"user_name": "alice",
		"password":  "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tempToken := cookieValue(resp, middleware.TempTokenCookie)

	resp = s.do(t, "POST", "/api/v1/auth/otp/verify", fiber.Map{
		"code": "WRONG123",
	}, map[string]string{
		middleware.TempTokenCookie: tempToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, cookieValue(resp, middleware.TokenCookie))
}

func TestVerifyWithoutTempCookie(t *testing.T) {
	s := newTestServer(t)
	s.seedApplicant(t)

	resp := s.do(t, "POST", "/api/v1/auth/otp/verify", fiber.Map{
		"code": "ABCD1234",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminPanelRequiresAdminToken(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t)

	// No cookie: 401 JSON envelope
	resp := s.do(t, "GET", "/api/v1/admin/applications/", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])

	// Admin login issues the admin token
	resp = s.do(t, "POST", "/api/v1/admin/auth/login", fiber.Map{
		"email":    "root@example.com",
		"password": "admin-pass-1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adminToken := cookieValue(resp, middleware.TokenCookie)
	require.NotEmpty(t, adminToken)

	// The admin cookie opens the panel
	resp = s.do(t, "GET", "/api/v1/admin/applications/", nil, map[string]string{
		middleware.TokenCookie: adminToken,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminApplicationCRUD(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t)

	resp := s.do(t, "POST", "/api/v1/admin/auth/login", fiber.Map{
		"email":    "root@example.com",
		"password": "admin-pass-1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adminCookies := map[string]string{middleware.TokenCookie: cookieValue(resp, middleware.TokenCookie)}

	// Create
	resp = s.do(t, "POST", "/api/v1/admin/applications/", fiber.Map{
		"user_name":                 "bob",
		"password":                  "secret123",
		"email":                     "bob@example.com",
		"application_type":          "Study Permit",
		"application_number":        "S0005678",
		"applicant_name":            "Bob Example",
		"date_of_submission":        "2025-04-01",
		"biometrics_number":         "B-5678",
		"biometrics_enrolment_date": "2025-04-02",
		"biometrics_expiry_date":    "2035-04-02",
	}, adminCookies)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	created := body["data"].(map[string]any)["application"].(map[string]any)
	id := int(created["id"].(float64))
	assert.Equal(t, "Pending", created["status"])

	// Missing fields come back as a 422 with per-field violations
	resp = s.do(t, "POST", "/api/v1/admin/applications/", fiber.Map{
		"user_name": "carol",
	}, adminCookies)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Append a message and mark it read
	resp = s.do(t, "POST", "/api/v1/admin/applications/"+itoa(id)+"/messages", fiber.Map{
		"content": "Your application was received.",
	}, adminCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, "PUT", "/api/v1/admin/applications/"+itoa(id)+"/messages/read", nil, adminCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	messages := body["data"].(map[string]any)["application"].(map[string]any)["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, true, messages[0].(map[string]any)["is_read"])

	// Delete returns the removed record, then the id is gone
	resp = s.do(t, "DELETE", "/api/v1/admin/applications/"+itoa(id), nil, adminCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, "GET", "/api/v1/admin/applications/"+itoa(id), nil, adminCookies)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
