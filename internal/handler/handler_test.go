package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/avasiliev/feedback-service/internal/repository"
	"github.com/avasiliev/feedback-service/internal/service"
	"github.com/avasiliev/feedback-service/internal/session"
	"github.com/avasiliev/feedback-service/internal/web"
)

func newTestApp(t *testing.T) (*mux.Router, *repository.Memory) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := repository.NewMemory()
	svc := service.NewService(store, logger)
	sessions := session.NewManager("test-secret", time.Hour)
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	h := New(svc, sessions, renderer, nil, "http://localhost:8080", logger)
	return NewRouter(h, logger), store
}

func postForm(router *mux.Router, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *mux.Router, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func registerForm(username string) url.Values {
	return url.Values{
		"username":   {username},
		"password":   {"secret1"},
		"email":      {username + "@x.com"},
		"first_name": {"A"},
		"last_name":  {"L"},
	}
}

// registerUser creates an account over HTTP and returns its session cookie
func registerUser(t *testing.T, router *mux.Router, username string) *http.Cookie {
	t.Helper()
	w := postForm(router, "/register", registerForm(username))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("registration of %s failed: status %d, body %s", username, w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

func assertLocation(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()
	if got := w.Header().Get("Location"); got != expected {
		t.Errorf("expected redirect to %s, got %s", expected, got)
	}
}

func TestHomeRedirectsToRegister(t *testing.T) {
	router, _ := newTestApp(t)
	w := get(router, "/")
	assertStatus(t, w, http.StatusFound)
	assertLocation(t, w, "/register")
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	router, store := newTestApp(t)

	w := postForm(router, "/register", registerForm("alice"))
	assertStatus(t, w, http.StatusSeeOther)
	assertLocation(t, w, "/users/alice")
	sessionCookie(t, w)

	user, err := store.FindUserByUsername("alice")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.PasswordHash == "secret1" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterDuplicateRerendersForm(t *testing.T) {
	router, store := newTestApp(t)
	registerUser(t, router, "alice")

	form := registerForm("alice")
	form.Set("email", "second@x.com")
	w := postForm(router, "/register", form)

	assertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Username taken. Please pick another") {
		t.Error("expected the duplicate-username field error in the form")
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			t.Error("failed registration must not create a session")
		}
	}

	user, err := store.FindUserByUsername("alice")
	if err != nil {
		t.Fatalf("original user missing: %v", err)
	}
	if user.Email != "alice@x.com" {
		t.Errorf("original row changed: %+v", user)
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	router, _ := newTestApp(t)

	w := postForm(router, "/register", url.Values{})
	assertStatus(t, w, http.StatusOK)
	body := w.Body.String()
	for _, want := range []string{"Username is required", "Password is required", "Email is required"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in the re-rendered form", want)
		}
	}
}

func TestRegisterWhileLoggedInRedirectsToProfile(t *testing.T) {
	router, _ := newTestApp(t)
	cookie := registerUser(t, router, "alice")

	w := get(router, "/register", cookie)
	assertStatus(t, w, http.StatusFound)
	assertLocation(t, w, "/users/alice")
}

func TestLoginSuccess(t *testing.T) {
	router, _ := newTestApp(t)
	registerUser(t, router, "alice")

	w := postForm(router, "/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	})
	assertStatus(t, w, http.StatusSeeOther)
	assertLocation(t, w, "/users/alice")
	sessionCookie(t, w)
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	router, _ := newTestApp(t)
	registerUser(t, router, "alice")

	for _, creds := range []url.Values{
		{"username": {"alice"}, "password": {"wrongpass"}},
		{"username": {"nobody"}, "password": {"secret1"}},
	} {
		w := postForm(router, "/login", creds)
		assertStatus(t, w, http.StatusOK)
		if !strings.Contains(w.Body.String(), "Invalid credentials.") {
			t.Error("expected the generic invalid-credentials message")
		}
		for _, c := range w.Result().Cookies() {
			if c.Name == "session" && c.Value != "" {
				t.Error("failed login must not create a session")
			}
		}
	}
}

func TestLogoutClearsSession(t *testing.T) {
	router, _ := newTestApp(t)
	cookie := registerUser(t, router, "alice")

	w := get(router, "/logout", cookie)
	assertStatus(t, w, http.StatusFound)
	assertLocation(t, w, "/login")

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not expire the session cookie")
	}
}

func TestProfileRequiresLogin(t *testing.T) {
	router, _ := newTestApp(t)
	registerUser(t, router, "alice")

	w := get(router, "/users/alice")
	assertStatus(t, w, http.StatusSeeOther)
	assertLocation(t, w, "/login")
}

func TestProfileShowsUserAndFeedback(t *testing.T) {
	router, store := newTestApp(t)
	cookie := registerUser(t, router, "alice")

	postForm(router, "/users/alice/feedback/add", url.Values{
		"title":   {"hi"},
		"content": {"first post"},
	}, cookie)

	w := get(router, "/users/alice", cookie)
	assertStatus(t, w, http.StatusOK)
	body := w.Body.String()
	if !strings.Contains(body, "@alice") || !strings.Contains(body, "first post") {
		t.Errorf("profile missing user or feedback: %s", body)
	}

	if list, _ := store.FindFeedbackByUsername("alice"); len(list) != 1 {
		t.Errorf("expected one feedback row, got %d", len(list))
	}
}

func TestProfileUnknownUserIs404(t *testing.T) {
	router, _ := newTestApp(t)
	cookie := registerUser(t, router, "alice")

	w := get(router, "/users/bob", cookie)
	assertStatus(t, w, http.StatusNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	router, store := newTestApp(t)
	cookie := registerUser(t, router, "alice")

	for i := 0; i < 2; i++ {
		postForm(router, "/feedback", url.Values{
			"title":   {"t"},
			"content": {"c"},
		}, cookie)
	}
	if list, _ := store.FindFeedbackByUsername("alice"); len(list) != 2 {
		t.Fatalf("expected 2 feedback rows before delete, got %d", len(list))
	}

	w := postForm(router, "/users/alice/delete", nil, cookie)
	assertStatus(t, w, http.StatusSeeOther)
	assertLocation(t, w, "/")

	if _, err := store.FindUserByUsername("alice"); err == nil {
		t.Error("user row still present")
	}
	if list, _ := store.FindFeedbackByUsername("alice"); len(list) != 0 {
		t.Errorf("feedback rows not cascaded: %d remain", len(list))
	}
}

func TestDeleteOtherUserRedirectsToLogin(t *testing.T) {
	router, store := newTestApp(t)
	registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	w := postForm(router, "/users/alice/delete", nil, bob)
	assertStatus(t, w, http.StatusSeeOther)
	assertLocation(t, w, "/login")

	if _, err := store.FindUserByUsername("alice"); err != nil {
		t.Error("alice must survive bob's delete attempt")
	}
}

func TestFeedIsAtom(t *testing.T) {
	router, _ := newTestApp(t)
	cookie := registerUser(t, router, "alice")

	postForm(router, "/feedback", url.Values{
		"title":   {"hi"},
		"content": {"feed me"},
	}, cookie)

	w := get(router, "/users/alice/feed.atom", cookie)
	assertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/atom+xml") {
		t.Errorf("unexpected content type %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<feed") || !strings.Contains(body, "feed me") {
		t.Errorf("feed body missing entries: %s", body)
	}
}

func TestFeedRequiresLogin(t *testing.T) {
	router, _ := newTestApp(t)
	registerUser(t, router, "alice")

	w := get(router, "/users/alice/feed.atom")
	assertStatus(t, w, http.StatusSeeOther)
	assertLocation(t, w, "/login")
}

func TestFlashShownOnceAfterRedirect(t *testing.T) {
	router, _ := newTestApp(t)

	w := postForm(router, "/register", registerForm("alice"))
	cookie := sessionCookie(t, w)

	var flash *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			flash = c
		}
	}
	if flash == nil {
		t.Fatal("registration redirect did not set a flash cookie")
	}

	first := get(router, "/users/alice", cookie, flash)
	if !strings.Contains(first.Body.String(), "Welcome! You successfully created your account!") {
		t.Error("flash message not rendered after redirect")
	}

	// the render response expires the flash cookie
	cleared := false
	for _, c := range first.Result().Cookies() {
		if c.Name == "flash" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("flash cookie not cleared after being shown")
	}

	second := get(router, "/users/alice", cookie)
	if strings.Contains(second.Body.String(), "Welcome! You successfully created your account!") {
		t.Error("flash message shown twice")
	}
}
