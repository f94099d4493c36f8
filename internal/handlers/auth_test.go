package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/service"
)

func postJSON(t *testing.T, h http.Handler, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_SignUpAndSignIn(t *testing.T) {
	exp := time.Date(2025, 8, 27, 13, 0, 0, 0, time.UTC)
	auth := &mockAuth{
		signUpSess:  service.Session{ID: "s1", Username: "u", ExpiresAt: exp},
		signUpToken: "tok-up",
		signInSess:  service.Session{ID: "s2", Username: "u", ExpiresAt: exp},
		signInToken: "tok123",
	}
	r := newTestRouter(&service.Service{Authorization: auth})

	// sign-up success
	w := postJSON(t, r, "/auth/sign-up", `{"username":"u","password":"p"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok-up" || m["username"] != "u" || m["expires_at"] != "2025-08-27T13:00:00Z" {
		t.Fatalf("unexpected sign-up body: %v", m)
	}
	if auth.lastSignUpUsername != "u" || auth.lastSignUpPassword != "p" {
		t.Fatalf("credentials not passed through: %q %q", auth.lastSignUpUsername, auth.lastSignUpPassword)
	}

	// sign-in success
	w = postJSON(t, r, "/auth/sign-in", `{"username":"u","password":"p"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("expected token tok123, got %v", m["token"])
	}

	// sign-in invalid body → 400
	w = postJSON(t, r, "/auth/sign-in", `{"username":1}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		err     error
		code    int
		message string
	}{
		{"sign-up taken", "/auth/sign-up", service.ErrUserExists, http.StatusConflict, "username already exists"},
		{"sign-up empty password", "/auth/sign-up", service.ErrEmptyPassword, http.StatusBadRequest, service.ErrEmptyPassword.Error()},
		{"sign-up slash", "/auth/sign-up", service.ErrInvalidUsername, http.StatusBadRequest, service.ErrInvalidUsername.Error()},
		{"sign-up outage", "/auth/sign-up", errors.Join(service.ErrStoreUnavailable, errors.New("dial")), http.StatusServiceUnavailable, errStoreUnavailable},
		{"sign-in unknown user", "/auth/sign-in", service.ErrUserNotFound, http.StatusUnauthorized, "user not found"},
		{"sign-in wrong password", "/auth/sign-in", service.ErrWrongPassword, http.StatusUnauthorized, "wrong password"},
		{"sign-in outage", "/auth/sign-in", errors.Join(service.ErrStoreUnavailable, errors.New("dial")), http.StatusServiceUnavailable, errStoreUnavailable},
		{"sign-in unexpected", "/auth/sign-in", errors.New("boom"), http.StatusInternalServerError, errInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{signUpErr: tc.err, signInErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: auth})

			w := postJSON(t, r, tc.path, `{"username":"u","password":"p"}`, nil)
			if w.Code != tc.code {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.code, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.message {
				t.Fatalf("error=%q want %q", out.Error, tc.message)
			}
		})
	}
}

func TestAuthHandlers_Logout(t *testing.T) {
	auth := newAuthedMock()
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(t, r, "/auth/logout", ``, authHeader(testToken))
	if w.Code != http.StatusOK {
		t.Fatalf("logout status=%d body=%s", w.Code, w.Body.String())
	}
	if auth.lastLogoutID != testSession.ID {
		t.Fatalf("logged out %q, want %q", auth.lastLogoutID, testSession.ID)
	}

	// the token is gone now
	w = postJSON(t, r, "/auth/logout", ``, authHeader(testToken))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("second logout should be unauthorized, got %d", w.Code)
	}
}

// Full stack: real services over the memory store.
func TestAuthHandlers_SignUpThenSignInOverHTTP(t *testing.T) {
	r := newRealRouter(t)

	w := postJSON(t, r, "/auth/sign-up", `{"username":"alice","password":"pw"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("sign-up status=%d body=%s", w.Code, w.Body.String())
	}
	w = postJSON(t, r, "/auth/sign-up", `{"username":"alice","password":"other"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate sign-up status=%d", w.Code)
	}
	w = postJSON(t, r, "/auth/sign-in", `{"username":"alice","password":"nope"}`, nil)
	if w.Code != http.StatusUnauthorized || !bytes.Contains(w.Body.Bytes(), []byte("wrong password")) {
		t.Fatalf("wrong password: status=%d body=%s", w.Code, w.Body.String())
	}
	w = postJSON(t, r, "/auth/sign-in", `{"username":"bob","password":"pw"}`, nil)
	if w.Code != http.StatusUnauthorized || !bytes.Contains(w.Body.Bytes(), []byte("user not found")) {
		t.Fatalf("unknown user: status=%d body=%s", w.Code, w.Body.String())
	}

	w = postJSON(t, r, "/auth/sign-in", `{"username":"alice","password":"pw"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d body=%s", w.Code, w.Body.String())
	}
	var out authResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("bad sign-in body %s: %v", w.Body.String(), err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	req.Header = authHeader(out.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("records with fresh token: status=%d", rec.Code)
	}

	w = postJSON(t, r, "/auth/logout", ``, authHeader(out.Token))
	if w.Code != http.StatusOK {
		t.Fatalf("logout status=%d", w.Code)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("token must stop working after logout, got %d", rec.Code)
	}
}

func TestAuthHandlers_LongAndBlankPasswords(t *testing.T) {
	r := newRealRouter(t)

	for i, pw := range []string{strings.Repeat("x", 73), "   "} {
		body := fmt.Sprintf(`{"username":"user%d","password":%q}`, i, pw)
		if w := postJSON(t, r, "/auth/sign-up", body, nil); w.Code != http.StatusCreated {
			t.Fatalf("sign-up with %d-byte password: status=%d body=%s", len(pw), w.Code, w.Body.String())
		}
		if w := postJSON(t, r, "/auth/sign-in", body, nil); w.Code != http.StatusOK {
			t.Fatalf("sign-in with %d-byte password: status=%d body=%s", len(pw), w.Code, w.Body.String())
		}
	}
}
