package kattis

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeSite is an httptest-backed judge instance with a working login flow.
// Tests register view handlers on mux and flip the knobs to simulate expired
// sessions and rejected credentials.
type fakeSite struct {
	mux *http.ServeMux
	srv *httptest.Server

	loginCalls  int
	rejectLogin bool
	loggedOut   bool
	dropNext    bool
	home        string
}

const (
	testUser     = "alice"
	testPassword = "hunter2"
)

const homePage = `<html><body>
<a href="/users/alice">alice</a>
<a href="/users/alice">profile</a>
<a href="/users/alice">alice</a>
<a href="/users/bob">bob</a>
</body></html>`

const loggedOutPage = `<html><body class="login-form"><a href="/login/email">Log in</a></body></html>`

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	site := &fakeSite{mux: http.NewServeMux(), home: homePage}

	site.mux.HandleFunc("/login/email", func(w http.ResponseWriter, r *http.Request) {
		if site.dropNext {
			site.dropNext = false
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer cannot hijack")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			conn.Close()
			return
		}
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<form><input type="hidden" name="csrf_token" value="123456789"></form>`)
			return
		}
		site.loginCalls++
		if site.rejectLogin || r.FormValue("user") != testUser || r.FormValue("password") != testPassword {
			fmt.Fprint(w, `<form>Invalid username/password</form>`)
			return
		}
		if r.FormValue("csrf_token") != "123456789" {
			http.Error(w, "bad csrf token", http.StatusForbidden)
			return
		}
		site.loggedOut = false
		http.Redirect(w, r, "/", http.StatusFound)
	})

	site.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if site.loggedOut {
			fmt.Fprint(w, loggedOutPage)
			return
		}
		fmt.Fprint(w, site.home)
	})

	site.srv = httptest.NewServer(site.mux)
	t.Cleanup(site.srv.Close)
	return site
}

func (s *fakeSite) session() *Session {
	return NewSession(s.srv.URL, testUser, testPassword)
}

func (s *fakeSite) client() *Client {
	return NewClient(s.session())
}

// handle registers a view handler that renders when the session is valid.
func (s *fakeSite) handle(path string, fn http.HandlerFunc) {
	s.mux.HandleFunc(path, fn)
}
