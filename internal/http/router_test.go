package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"genesis-api/internal/domain"
	"genesis-api/internal/service"
)

type testEnv struct {
	router *gin.Engine
	users  *mockUserRepo
	sender *mockEmailSender
	tokens *service.JWTService
}

type envOptions struct {
	zeroTTL   bool
	mockUsers bool
	limits    RateLimits
	store     Pinger
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ttl := time.Hour
	if opts.zeroTTL {
		ttl = 0
	}

	users := newMockUserRepo()
	sender := &mockEmailSender{}
	tokens := service.NewJWTService("test-secret", ttl)
	auth := service.NewAuthService(zap.NewNop(), users, sender, tokens, opts.mockUsers)
	configs := service.NewProjectConfigService(zap.NewNop(), &mockConfigRepo{}, true)
	if err := configs.EnsureDefault(context.Background()); err != nil {
		t.Fatalf("ensure default config: %v", err)
	}

	h := Handlers{
		Auth:      NewAuthHandler(zap.NewNop(), auth, tokens, false),
		Config:    NewConfigHandler(zap.NewNop(), configs),
		Customers: NewCustomerHandler(zap.NewNop(), service.NewCustomerService(zap.NewNop(), &mockCustomerRepo{items: map[string]domain.Customer{}})),
		Posts:     NewPostHandler(zap.NewNop(), service.NewPostService(zap.NewNop(), &mockPostRepo{items: map[string]domain.Post{}})),
		Health:    NewHealthHandler(zap.NewNop(), opts.store),
	}
	r := NewRouter(zap.NewNop(), h, NewAccessGuard(zap.NewNop(), tokens, auth), opts.limits)
	return &testEnv{router: r, users: users, sender: sender, tokens: tokens}
}

func performRequest(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) []string {
	return []string{"Authorization", "Bearer " + token}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

// signIn registra, asigna el rol y completa el login por MFA; devuelve el token.
func (e *testEnv) signIn(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	creds := map[string]string{"email": email, "password": "secret123"}
	if rec := performRequest(e.router, http.MethodPost, "/auth/register", creds); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	user, err := e.users.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("lookup registered user: %v", err)
	}
	if err := e.users.SetRole(context.Background(), user.ID, role); err != nil {
		t.Fatalf("set role: %v", err)
	}
	if rec := performRequest(e.router, http.MethodPost, "/auth/login", creds); rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	rec := performRequest(e.router, http.MethodPost, "/auth/verify-mfa", map[string]string{"email": email, "mfaCode": e.sender.code()})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	token, _ := decodeBody(t, rec)["accessToken"].(string)
	if token == "" {
		t.Fatalf("expected access token in verify response")
	}
	return token
}

func validCustomer() map[string]any {
	return map[string]any{
		"companyName":         "Acme Corp",
		"address":             "Amsterdam, Netherlands",
		"phoneNumber":         "+31612345678",
		"email":               "info@acme.com",
		"kvkNumber":           "12345678",
		"legalForm":           "BV",
		"mainActivity":        "Software Development",
		"dga":                 "John Doe",
		"staffFTE":            50,
		"annualTurnover":      1000000,
		"grossProfit":         500000,
		"payrollYear":         0,
		"visitDate":           "2025-01-15",
		"advisor":             "Jane Smith",
		"visitLocation":       "Office",
		"visitFrequency":      "Monthly",
		"conversationPartner": "CEO",
	}
}

func TestAuthFlow_RegisterLoginVerifyMe(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	creds := map[string]string{"email": "User@Example.com", "password": "secret123"}

	rec := performRequest(env.router, http.MethodPost, "/auth/register", creds)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["codeSent"] != true {
		t.Fatalf("expected codeSent true, got %v", body)
	}
	if strings.Contains(rec.Body.String(), env.sender.code()) {
		t.Fatalf("register response must not reveal the code")
	}

	rec = performRequest(env.router, http.MethodPost, "/auth/login", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if _, ok := decodeBody(t, rec)["accessToken"]; ok {
		t.Fatalf("login must not grant a session")
	}

	rec = performRequest(env.router, http.MethodPost, "/auth/verify-mfa", map[string]string{
		"email":   "user@example.com",
		"mfaCode": env.sender.code(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	session := decodeBody(t, rec)
	if session["email"] != "user@example.com" || session["role"] != "user" || session["expiresIn"] != float64(3600) {
		t.Fatalf("unexpected session %v", session)
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "access_token=") || !strings.Contains(cookie, "HttpOnly") || !strings.Contains(cookie, "SameSite=Strict") {
		t.Fatalf("expected strict http-only cookie, got %q", cookie)
	}

	rec = performRequest(env.router, http.MethodGet, "/auth/me", nil, bearer(session["accessToken"].(string))...)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	me := decodeBody(t, rec)
	if me["email"] != "user@example.com" || me["isVerified"] != true {
		t.Fatalf("unexpected profile %v", me)
	}
	for _, secret := range []string{"password", "mfaCode", "accessToken"} {
		if _, ok := me[secret]; ok {
			t.Fatalf("profile must not expose %s", secret)
		}
	}
}

func TestAuth_MeWithCookie(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	token := env.signIn(t, "cookie@example.com", domain.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected cookie auth to work, got %d", rec.Code)
	}
}

func TestAuth_RegisterDuplicate(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	creds := map[string]string{"email": "dup@example.com", "password": "secret123"}
	performRequest(env.router, http.MethodPost, "/auth/register", creds)

	rec := performRequest(env.router, http.MethodPost, "/auth/register", creds)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "User already exists" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := performRequest(env.router, http.MethodPost, "/auth/register", map[string]string{"email": "not-an-email", "password": "123"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	msgs, ok := body["message"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected two field messages, got %v", body["message"])
	}
	if msgs[0] != "email must be an email" || msgs[1] != "password must be longer than or equal to 6 characters" {
		t.Fatalf("unexpected messages %v", msgs)
	}
	if body["statusCode"] != float64(400) || body["path"] != "/auth/register" || body["timestamp"] == "" {
		t.Fatalf("unexpected error body %v", body)
	}

	rec = performRequest(env.router, http.MethodPost, "/auth/register", map[string]string{"email": "a@b.com", "password": "secret123", "role": "admin"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown property rejected, got %d", rec.Code)
	}
}

func TestAuth_LoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	performRequest(env.router, http.MethodPost, "/auth/register", map[string]string{"email": "known@example.com", "password": "secret123"})

	wrongPassword := performRequest(env.router, http.MethodPost, "/auth/login", map[string]string{"email": "known@example.com", "password": "wrong-pass"})
	unknownEmail := performRequest(env.router, http.MethodPost, "/auth/login", map[string]string{"email": "ghost@example.com", "password": "secret123"})

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", wrongPassword.Code, unknownEmail.Code)
	}
	a, b := decodeBody(t, wrongPassword)["message"], decodeBody(t, unknownEmail)["message"]
	if a != b || a != "Invalid credentials" {
		t.Fatalf("expected identical messages, got %v and %v", a, b)
	}
}

func TestAuth_VerifyCodeIsSingleUse(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	performRequest(env.router, http.MethodPost, "/auth/register", map[string]string{"email": "once@example.com", "password": "secret123"})
	verify := map[string]string{"email": "once@example.com", "mfaCode": env.sender.code()}

	if rec := performRequest(env.router, http.MethodPost, "/auth/verify-mfa", verify); rec.Code != http.StatusOK {
		t.Fatalf("expected first verify to succeed, got %d", rec.Code)
	}
	rec := performRequest(env.router, http.MethodPost, "/auth/verify-mfa", verify)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected second verify to fail, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Invalid or expired MFA code" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestAuth_LogoutRevokesAndClearsCookie(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	token := env.signIn(t, "bye@example.com", domain.RoleUser)

	rec := performRequest(env.router, http.MethodPost, "/auth/logout", nil, bearer(token)...)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Successfully logged out" {
		t.Fatalf("unexpected message %v", msg)
	}
	if cookie := rec.Header().Get("Set-Cookie"); !strings.Contains(cookie, "access_token=;") || !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected cookie cleared, got %q", cookie)
	}
	user, _ := env.users.GetByEmail(context.Background(), "bye@example.com")
	if !user.IsTokenRevoked || user.AccessToken != "" {
		t.Fatalf("expected token bookkeeping revoked, got %+v", user)
	}

	// el guard no consulta isTokenRevoked; el token sigue valido hasta expirar
	if rec := performRequest(env.router, http.MethodGet, "/auth/me", nil, bearer(token)...); rec.Code != http.StatusOK {
		t.Fatalf("expected revoked bearer still accepted, got %d", rec.Code)
	}

	if rec := performRequest(env.router, http.MethodPost, "/auth/logout", nil); rec.Code != http.StatusOK {
		t.Fatalf("logout without token must still succeed, got %d", rec.Code)
	}
}

func TestAccessGuard_RejectsBadTokens(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name    string
		headers []string
		message string
	}{
		{"missing", nil, "No token provided"},
		{"wrong scheme", []string{"Authorization", "Basic abc"}, "Invalid token type. Expected Bearer token"},
		{"empty bearer", []string{"Authorization", "Bearer"}, "Token is missing from Authorization header"},
		{"garbage", bearer("not-a-jwt"), "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(env.router, http.MethodGet, "/customers", nil, tt.headers...)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if msg := decodeBody(t, rec)["message"]; msg != tt.message {
				t.Fatalf("expected %q, got %v", tt.message, msg)
			}
		})
	}
}

func TestAccessGuard_ZeroLifetimeTokenRejected(t *testing.T) {
	env := newTestEnv(t, envOptions{zeroTTL: true})
	token := env.signIn(t, "zero@example.com", domain.RoleAdmin)

	rec := performRequest(env.router, http.MethodGet, "/auth/me", nil, bearer(token)...)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Invalid token" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestAccessGuard_UnknownSubjectRejected(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	token, _, err := env.tokens.Issue(domain.User{ID: "ghost", Email: "ghost@example.com", Role: domain.RoleAdmin}, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rec := performRequest(env.router, http.MethodGet, "/auth/me", nil, bearer(token)...); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestCustomers_RoleAccess(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	userToken := env.signIn(t, "reader@example.com", domain.RoleUser)
	adminToken := env.signIn(t, "admin@example.com", domain.RoleAdmin)

	if rec := performRequest(env.router, http.MethodPost, "/customers", validCustomer(), bearer(userToken)...); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user write, got %d", rec.Code)
	}

	rec := performRequest(env.router, http.MethodPost, "/customers", validCustomer(), bearer(adminToken)...)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin write, got %d %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	id, _ := created["id"].(string)
	if id == "" || created["status"] != "in-progress" || created["payrollYear"] != float64(0) {
		t.Fatalf("unexpected customer %v", created)
	}

	if rec := performRequest(env.router, http.MethodGet, "/customers/"+id, nil, bearer(userToken)...); rec.Code != http.StatusOK {
		t.Fatalf("expected user read to succeed, got %d", rec.Code)
	}
	if rec := performRequest(env.router, http.MethodPatch, "/customers/"+id, map[string]any{"status": "completed"}, bearer(adminToken)...); rec.Code != http.StatusOK {
		t.Fatalf("expected admin update to succeed, got %d", rec.Code)
	}
	if rec := performRequest(env.router, http.MethodDelete, "/customers/"+id, nil, bearer(adminToken)...); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodGet, "/customers", nil, bearer(userToken)...)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCustomers_MissingIDsAreNotFound(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	adminToken := env.signIn(t, "admin@example.com", domain.RoleAdmin)

	cases := []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPatch, map[string]any{"companyName": "x"}},
		{http.MethodDelete, nil},
	}
	for _, tc := range cases {
		rec := performRequest(env.router, tc.method, "/customers/missing", tc.body, bearer(adminToken)...)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", tc.method, rec.Code)
		}
		if msg := decodeBody(t, rec)["message"]; msg != `Customer with ID "missing" not found` {
			t.Fatalf("%s: unexpected message %v", tc.method, msg)
		}
	}
}

func TestCustomers_CreateValidation(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	adminToken := env.signIn(t, "admin@example.com", domain.RoleAdmin)

	body := validCustomer()
	body["visitDate"] = "next tuesday"
	body["status"] = "archived"
	delete(body, "staffFTE")

	rec := performRequest(env.router, http.MethodPost, "/customers", body, bearer(adminToken)...)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msgs, _ := decodeBody(t, rec)["message"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("expected three field messages, got %v", msgs)
	}
}

func TestPosts_AdminCRUD(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	adminToken := env.signIn(t, "admin@example.com", domain.RoleAdmin)

	rec := performRequest(env.router, http.MethodPost, "/posts", map[string]any{"title": "Hello", "content": "World"}, bearer(adminToken)...)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	post := decodeBody(t, rec)
	if post["isPublished"] != true {
		t.Fatalf("expected published by default, got %v", post)
	}
	id := post["id"].(string)

	rec = performRequest(env.router, http.MethodPatch, "/posts/"+id, map[string]any{"tags": []string{"go"}}, bearer(adminToken)...)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if tags, _ := decodeBody(t, rec)["tags"].([]any); len(tags) != 1 {
		t.Fatalf("expected tag update, got %v", tags)
	}

	rec = performRequest(env.router, http.MethodPatch, "/posts/"+id, map[string]any{"isPublished": "yes"}, bearer(adminToken)...)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected type error as 400, got %d", rec.Code)
	}

	if rec := performRequest(env.router, http.MethodGet, "/posts/nope", nil, bearer(adminToken)...); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestConfig_ReadPublicWriteAdmin(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := performRequest(env.router, http.MethodGet, "/auth/config", nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["appName"] != "Genesis API" {
		t.Fatalf("expected public config, got %d %s", rec.Code, rec.Body.String())
	}

	userToken := env.signIn(t, "reader@example.com", domain.RoleUser)
	if rec := performRequest(env.router, http.MethodPatch, "/auth/config/appName", map[string]any{"value": "X"}, bearer(userToken)...); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	adminToken := env.signIn(t, "admin@example.com", domain.RoleAdmin)
	rec = performRequest(env.router, http.MethodPatch, "/auth/config/appName", map[string]any{"value": "Mantra"}, bearer(adminToken)...)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["appName"] != "Mantra" {
		t.Fatalf("expected updated config, got %d %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodPatch, "/auth/config/notAKey", map[string]any{"value": "x"}, bearer(adminToken)...)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown key, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Invalid configuration key: notAKey" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestMockUsers_DevBypass(t *testing.T) {
	env := newTestEnv(t, envOptions{mockUsers: true})

	rec := performRequest(env.router, http.MethodPost, "/auth/login", map[string]string{"email": "admin@dummy.com", "password": "password123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if code := decodeBody(t, rec)["mockMfaCode"]; code != service.MockMFACode {
		t.Fatalf("expected mock code, got %v", code)
	}

	rec = performRequest(env.router, http.MethodPost, "/auth/verify-mfa", map[string]string{"email": "admin@dummy.com", "mfaCode": service.MockMFACode})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	token := decodeBody(t, rec)["accessToken"].(string)

	if rec := performRequest(env.router, http.MethodPost, "/customers", validCustomer(), bearer(token)...); rec.Code != http.StatusCreated {
		t.Fatalf("expected mock admin to create, got %d", rec.Code)
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	env := newTestEnv(t, envOptions{limits: RateLimits{
		Global: func(string) service.RateLimiter { return &mockLimiter{allow: true} },
		Login:  service.NewMemoryRateLimiter(time.Minute, 1),
	}})
	creds := map[string]string{"email": "ghost@example.com", "password": "secret123"}

	performRequest(env.router, http.MethodPost, "/auth/login", creds)
	rec := performRequest(env.router, http.MethodPost, "/auth/login", creds)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if status := decodeBody(t, rec)["statusCode"]; status != float64(429) {
		t.Fatalf("expected uniform body, got %v", status)
	}

	if rec := performRequest(env.router, http.MethodGet, "/", nil); rec.Code != http.StatusOK {
		t.Fatalf("other routes use their own limiter, got %d", rec.Code)
	}
}

func TestRateLimit_GlobalApplies(t *testing.T) {
	deny := func(string) service.RateLimiter { return &mockLimiter{allow: false} }
	env := newTestEnv(t, envOptions{limits: RateLimits{Global: deny}})
	if rec := performRequest(env.router, http.MethodGet, "/", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec := performRequest(env.router, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("health check is not throttled, got %d", rec.Code)
	}
}

func TestRateLimit_GlobalBudgetIsPerRoute(t *testing.T) {
	var names []string
	env := newTestEnv(t, envOptions{limits: RateLimits{
		Global: func(name string) service.RateLimiter {
			names = append(names, name)
			return service.NewMemoryRateLimiter(time.Minute, 2)
		},
	}})

	for i := 0; i < 2; i++ {
		if rec := performRequest(env.router, http.MethodGet, "/", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	if rec := performRequest(env.router, http.MethodGet, "/", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected root route exhausted, got %d", rec.Code)
	}

	for i := 0; i < 2; i++ {
		if rec := performRequest(env.router, http.MethodGet, "/auth/config", nil); rec.Code != http.StatusOK {
			t.Fatalf("config request %d: expected own budget, got %d", i+1, rec.Code)
		}
	}
	if rec := performRequest(env.router, http.MethodGet, "/auth/config", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected config route exhausted, got %d", rec.Code)
	}

	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Fatalf("limiter %q built twice", n)
		}
		seen[n] = true
	}
	if !seen["GET:/customers/:id"] || !seen["PATCH:/customers/:id"] {
		t.Fatalf("expected one limiter per method and path, got %v", names)
	}
}

func TestRouter_InfraEndpoints(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := performRequest(env.router, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["message"] != "Hello World!" {
		t.Fatalf("unexpected root response %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}

	rec = performRequest(env.router, http.MethodGet, "/nowhere", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Cannot GET /nowhere" || body["path"] != "/nowhere" {
		t.Fatalf("unexpected not found body %v", body)
	}

	if rec := performRequest(env.router, http.MethodGet, "/metrics", nil); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "genesis_http_requests_total") {
		t.Fatalf("expected prometheus exposition, got %d", rec.Code)
	}
}

func TestRouter_HealthzReportsStore(t *testing.T) {
	env := newTestEnv(t, envOptions{store: mockPinger{err: errStoreDown}})
	if rec := performRequest(env.router, http.MethodGet, "/healthz", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.router.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := performRequest(env.router, http.MethodGet, "/boom", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Internal server error" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestWithCORS_Preflight(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	h := WithCORS(env.router, []string{"http://localhost:5500"}, false)

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5500" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials allowed")
	}

	req = httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected unknown origin rejected, got %q", got)
	}
}
