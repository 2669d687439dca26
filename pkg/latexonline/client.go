package latexonline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultURL is the public LaTeX.Online compile endpoint.
const DefaultURL = "https://latexonline.cc/compile"

// Client calls the LaTeX.Online compile service. It makes exactly one
// request per call: no retries, no backoff.
type Client struct {
	URL  string
	HTTP *http.Client
}

// Response is the raw upstream answer. Body is the full response body,
// whatever the status.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// NewClient returns a client for compileURL. A nil httpClient means a client
// without timeout.
func NewClient(compileURL string, httpClient *http.Client) *Client {
	if compileURL == "" {
		compileURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{URL: compileURL, HTTP: httpClient}
}

// CompileURL returns the GET URL carrying text as the encoded "text" query
// parameter.
func (c *Client) CompileURL(text string) string {
	sep := "?"
	if strings.Contains(c.URL, "?") {
		sep = "&"
	}
	return c.URL + sep + "text=" + EncodeURIComponent(text)
}

// Compile sends text to the compile service and returns the raw response.
// An error is returned only for transport or read failures.
func (c *Client) Compile(ctx context.Context, text string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CompileURL(text), nil)
	if err != nil {
		return nil, fmt.Errorf("build compile request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read compile response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s the way ECMAScript's
// encodeURIComponent does: every UTF-8 byte outside A-Z a-z 0-9 and
// "-_.!~*'()" becomes %XX.
func EncodeURIComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
