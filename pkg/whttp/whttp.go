package whttp

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:83.0) Gecko/20100101 Firefox/83.0"

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Method  string
	Headers []WHTTPHeader

	// Form holds an application/x-www-form-urlencoded body. Only used for
	// POST-like methods.
	Form url.Values
}

type WHTTPRes struct {
	StatusCode     int
	ResponseLength int
	HTTPTitle      string
	BodyString     string

	// FinalURL is the URL after following redirects. Login flows use it to
	// detect being bounced back to the login page.
	FinalURL string
}

// NewClient builds a cookie-jar-backed client suitable for authenticated
// scraping sessions. Retries are disabled by default: retry policy belongs to
// the caller, not the transport.
func NewClient(timeout time.Duration) *retryablehttp.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		// cookiejar.New never fails with a nil options struct
		panic(err)
	}

	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = 0
	client.HTTPClient.Jar = jar
	client.HTTPClient.Timeout = timeout
	return client
}

// SetupProxy routes a client through an HTTP proxy, useful for debugging
// scrape traffic.
func SetupProxy(client *retryablehttp.Client, proxy string) error {
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return err
	}
	client.HTTPClient.Transport = &http.Transport{
		Proxy: http.ProxyURL(proxyURL),
	}
	return nil
}

func SendHTTPRequest(ctx context.Context, wReq *WHTTPReq, client *retryablehttp.Client) (wRes *WHTTPRes, err error) {
	var body io.Reader
	if wReq.Form != nil {
		body = strings.NewReader(wReq.Form.Encode())
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, wReq.Method, wReq.URL, body)
	if err != nil {
		return nil, err
	}

	// Set common headers
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-transform")
	req.Header.Set("Accept-Language", "en")
	if wReq.Form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Set custom headers
	for _, h := range wReq.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	if client == nil {
		client = NewClient(30 * time.Second)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	wRes = &WHTTPRes{
		StatusCode:     resp.StatusCode,
		BodyString:     string(bodyBytes),
		ResponseLength: len(bodyBytes),
		FinalURL:       wReq.URL,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		wRes.FinalURL = resp.Request.URL.String()
	}

	if title, ok := getHTMLTitle(wRes.BodyString); ok {
		wRes.HTTPTitle = strings.ToValidUTF8(strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")), "")
	}

	return wRes, nil
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result, ok := traverse(c)
		if ok {
			return result, ok
		}
	}

	return "", false
}

func getHTMLTitle(requestBody string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(requestBody))
	if err != nil {
		return "", false
	}

	return traverse(doc)
}
