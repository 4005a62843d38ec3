package http_client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

type HttpClient struct {
	HttpClient *http.Client
}

type RequestOption func(options *RequestOptions)

type RequestOptions struct {
	body   any
	header http.Header
	query  url.Values
	ctx    context.Context
}

func WithBody(body any) RequestOption {
	return func(c *RequestOptions) {
		c.body = body
	}
}

func WithHeader(key, value string) RequestOption {
	return func(c *RequestOptions) {
		c.header.Set(key, value)
	}
}

func WithQuery(key, value string) RequestOption {
	return func(c *RequestOptions) {
		c.query.Set(key, value)
	}
}

func WithContext(ctx context.Context) RequestOption {
	return func(c *RequestOptions) {
		c.ctx = ctx
	}
}

// NewSession returns a client with its own cookie jar and connection pool,
// carrying token as the session cookie for every request sent to baseURL.
func NewSession(baseURL, cookieName, token string, timeout time.Duration) (*HttpClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	jar.SetCookies(u, []*http.Cookie{
		{
			Name:  cookieName,
			Value: token,
			Path:  "/",
		},
	})
	return &HttpClient{
		HttpClient: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
	}, nil
}

func (c *HttpClient) NewRequest(method string, rawURL string, option ...RequestOption) (*http.Request, error) {
	options := &RequestOptions{header: http.Header{}, query: url.Values{}, ctx: context.Background()}
	for _, opt := range option {
		opt(options)
	}
	var body io.Reader
	if options.body != nil {
		switch v := options.body.(type) {
		case io.Reader:
			body = v
		case []byte:
			body = bytes.NewReader(v)
		default:
			data, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			body = bytes.NewBuffer(data)
		}
	}
	req, err := http.NewRequestWithContext(options.ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if len(options.header) != 0 {
		req.Header = options.header
	}
	if len(options.query) != 0 {
		q := req.URL.Query()
		for k, v := range options.query {
			q[k] = v
		}
		req.URL.RawQuery = q.Encode()
	}
	return req, nil
}

func (c *HttpClient) Do(req *http.Request) (*http.Response, error) {
	return c.HttpClient.Do(req)
}

// CloseIdleConnections releases the session's pooled connections once a job is done with it.
func (c *HttpClient) CloseIdleConnections() {
	c.HttpClient.CloseIdleConnections()
}
