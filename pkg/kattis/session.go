package kattis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/mvaldr/kattscope/internal/utils"
	"github.com/mvaldr/kattscope/pkg/whttp"
)

// DefaultBaseURL is the open judge instance. Course-centric deployments
// (per-university instances) use the same page structure under a different
// host.
const DefaultBaseURL = "https://open.kattis.com"

const defaultTimeout = 30 * time.Second

// csrfTokenRe matches the hidden CSRF field on the login form. The token is a
// numeric blob; matching the input by name keeps us independent of where the
// form places it.
var csrfTokenRe = regexp.MustCompile(`name="csrf_token"[^>]*value="(\d+)"`)

// Session owns the authenticated cookie state against one judge instance.
// Credentials are held in memory only for re-authentication; they are never
// logged or written anywhere.
type Session struct {
	baseURL  string
	username string
	password string

	client   *retryablehttp.Client
	loggedIn bool
	user     string
}

// NewSession builds an unauthenticated session. Call Login before fetching.
func NewSession(baseURL, username, password string) *Session {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Session{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		client:   whttp.NewClient(defaultTimeout),
	}
}

func (s *Session) BaseURL() string { return s.baseURL }

// User returns the site handle resolved at login time. Empty until Login
// succeeds.
func (s *Session) User() string { return s.user }

// SetProxy routes the session's traffic through an HTTP proxy.
func (s *Session) SetProxy(proxy string) error {
	return whttp.SetupProxy(s.client, proxy)
}

// send wraps the transport so every fault comes back as a classified
// FetchError.
func (s *Session) send(ctx context.Context, req *whttp.WHTTPReq) (*whttp.WHTTPRes, error) {
	res, err := whttp.SendHTTPRequest(ctx, req, s.client)
	if err != nil {
		return nil, classifyTransportError(req.URL, err)
	}
	return res, nil
}

// Login performs the CSRF handshake and credential POST. A transport failure
// on either leg is retried exactly once before giving up; a rejected
// credential pair fails immediately.
func (s *Session) Login(ctx context.Context) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := s.login(ctx)
		if err == nil {
			return nil
		}
		var authErr *AuthError
		if errors.As(err, &authErr) && authErr.Reason == ReasonInvalidCredentials {
			return err
		}
		lastErr = err
		utils.Log.Warnf("login attempt %d failed: %v", attempt+1, err)
	}
	return &AuthError{Reason: ReasonNetwork, Err: lastErr}
}

func (s *Session) login(ctx context.Context) error {
	loginURL := s.baseURL + "/login/email"

	res, err := s.send(ctx, &whttp.WHTTPReq{URL: loginURL, Method: "GET"})
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &FetchError{Reason: FetchReasonHTTPStatus, URL: loginURL, StatusCode: res.StatusCode}
	}

	m := csrfTokenRe.FindStringSubmatch(res.BodyString)
	if m == nil {
		return fmt.Errorf("login page carried no csrf token")
	}

	form := url.Values{}
	form.Set("csrf_token", m[1])
	form.Set("user", s.username)
	form.Set("password", s.password)
	form.Set("submit", "Submit")

	res, err = s.send(ctx, &whttp.WHTTPReq{URL: loginURL, Method: "POST", Form: form})
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &FetchError{Reason: FetchReasonHTTPStatus, URL: loginURL, StatusCode: res.StatusCode}
	}
	// A rejected login redirects back to the login form; a successful one
	// lands on the user's homepage.
	if strings.Contains(res.FinalURL, "login") {
		return &AuthError{Reason: ReasonInvalidCredentials}
	}

	if err := s.resolveUser(res.BodyString); err != nil {
		return err
	}
	s.loggedIn = true
	utils.Log.Infof("logged in to %s as %s", s.baseURL, s.user)
	return nil
}

// resolveUser pulls the session's own handle out of the post-login homepage.
// The page links the logged-in user more often than anyone else, so the most
// frequent /users/ link wins.
func (s *Session) resolveUser(body string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return err
	}
	counts := make(map[string]int)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.Contains(href, "/users/") {
			counts[utils.LastPath(href)]++
		}
	})
	best, bestCount := "", 0
	for user, n := range counts {
		if n > bestCount && user != "" {
			best, bestCount = user, n
		}
	}
	if best == "" {
		return fmt.Errorf("homepage carried no user links")
	}
	s.user = best
	return nil
}

// EnsureValid probes whether the session's cookies are still accepted and
// re-authenticates once if they are not. A session that cannot be restored
// fails with ReasonSessionLost.
func (s *Session) EnsureValid(ctx context.Context) error {
	if !s.loggedIn {
		return s.Login(ctx)
	}

	res, err := s.send(ctx, &whttp.WHTTPReq{URL: s.baseURL, Method: "GET"})
	if err == nil && res.StatusCode >= 200 && res.StatusCode <= 299 && !looksLoggedOut(res.BodyString) {
		return nil
	}

	utils.Log.Info("session expired, re-authenticating")
	s.loggedIn = false
	if err := s.Login(ctx); err != nil {
		return &AuthError{Reason: ReasonSessionLost, Err: err}
	}
	return nil
}

// looksLoggedOut detects the logged-out homepage by its login call-to-action.
func looksLoggedOut(body string) bool {
	return strings.Contains(body, `href="/login/email"`) || strings.Contains(body, `class="login-form"`)
}

// get fetches one authenticated page. Non-2xx responses and transport faults
// surface as FetchErrors; the caller decides whether to abort the query.
func (s *Session) get(ctx context.Context, path string, params url.Values) (*whttp.WHTTPRes, error) {
	u := s.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	res, err := s.send(ctx, &whttp.WHTTPReq{URL: u, Method: "GET"})
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &FetchError{Reason: FetchReasonHTTPStatus, URL: u, StatusCode: res.StatusCode}
	}
	return res, nil
}
