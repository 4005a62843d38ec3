package job

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/reusedev/koi/internal/consts"
	"github.com/reusedev/koi/internal/modules/http_client"
	"github.com/reusedev/koi/internal/modules/logs"
	"github.com/reusedev/koi/tools"
)

const downloadChunkSize = 8192

// Client talks to one backend on behalf of one job. It owns its HTTP session.
type Client struct {
	BaseURL string
	Worker  string
	Session *http_client.HttpClient
}

func NewClient(baseURL, worker, sessionToken string, timeout time.Duration) (*Client, error) {
	session, err := http_client.NewSession(baseURL, consts.SessionCookie, sessionToken, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: baseURL,
		Worker:  worker,
		Session: session,
	}, nil
}

func (c *Client) Close() {
	c.Session.CloseIdleConnections()
}

// Upload posts the encoded image as the multipart field "file" and returns the
// server-assigned filename.
func (c *Client) Upload(ctx context.Context, jobID string, image []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "file")
	if err != nil {
		return "", err
	}
	if _, err = part.Write(image); err != nil {
		return "", err
	}
	if err = mw.Close(); err != nil {
		return "", err
	}
	body, err := c.do(ctx, jobID, http.MethodPost, consts.UploadImagePath,
		http_client.WithBody(&buf),
		http_client.WithHeader("Content-Type", mw.FormDataContentType()),
	)
	if err != nil {
		return "", err
	}
	if !jsoniter.Valid(body) {
		return "", fmt.Errorf("%w: %q", ErrUploadResponse, truncate(body))
	}
	filename := jsoniter.Get(body, "filename")
	if filename.ValueType() != jsoniter.StringValue || filename.ToString() == "" {
		return "", fmt.Errorf("%w: %q", ErrUploadResponse, truncate(body))
	}
	return filename.ToString(), nil
}

// Enqueue asks the backend to start jobID. Only the HTTP status is checked.
func (c *Client) Enqueue(ctx context.Context, jobID string, request *Request, filename string) error {
	jobsData, err := jsoniter.MarshalToString([]Descriptor{
		{
			ID:         jobID,
			Worker:     0,
			Parameters: request.Parameters(filename),
		},
	})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, jobID, http.MethodGet, consts.EnqueuePath,
		http_client.WithQuery(consts.JobsDataParam, jobsData),
		http_client.WithQuery(consts.WorkerParam, c.Worker),
	)
	return err
}

// Status returns the backend's status string for jobID. Unknown values are
// returned as-is and keep the job polling.
func (c *Client) Status(ctx context.Context, jobID string) (consts.JobStatus, error) {
	body, err := c.do(ctx, jobID, http.MethodGet, fmt.Sprintf(consts.JobPathFormat, jobID),
		http_client.WithQuery(consts.WorkerParam, c.Worker),
	)
	if err != nil {
		return "", err
	}
	if !jsoniter.Valid(body) {
		return "", fmt.Errorf("%w: %q", ErrStatusResponse, truncate(body))
	}
	return consts.JobStatus(jsoniter.Get(body, "status").ToString()), nil
}

// FetchImage streams the finished image into memory.
func (c *Client) FetchImage(ctx context.Context, jobID string) ([]byte, error) {
	req, err := c.Session.NewRequest(http.MethodGet,
		tools.FullURL(c.BaseURL, fmt.Sprintf(consts.JobImageFormat, jobID)),
		http_client.WithQuery(consts.WorkerParam, c.Worker),
		http_client.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}
	reqAt := time.Now()
	resp, err := c.Session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w %d: %q", ErrStatusCode, resp.StatusCode, data)
	}
	var image bytes.Buffer
	n, err := io.CopyBuffer(&image, resp.Body, make([]byte, downloadChunkSize))
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	logs.ForJob(jobID).Info().
		Str("path", req.URL.Path).
		Str("method", req.Method).
		Int("status_code", resp.StatusCode).
		Int64("bytes", n).
		Dur("req_consume_ms", time.Since(reqAt)).
		Msg("job image downloaded")
	if n == 0 {
		return nil, ErrEmptyImage
	}
	return image.Bytes(), nil
}

func (c *Client) do(ctx context.Context, jobID, method, path string, options ...http_client.RequestOption) ([]byte, error) {
	options = append(options, http_client.WithContext(ctx))
	req, err := c.Session.NewRequest(method, tools.FullURL(c.BaseURL, path), options...)
	if err != nil {
		return nil, err
	}
	reqAt := time.Now()
	resp, err := c.Session.Do(req)
	respAt := time.Now()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	logs.ForJob(jobID).Debug().
		Str("path", path).
		Str("method", method).
		Int("status_code", resp.StatusCode).
		Dur("req_consume_ms", respAt.Sub(reqAt)).
		Msg("job request")
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d: %q", ErrStatusCode, resp.StatusCode, truncate(body))
	}
	return body, nil
}

func truncate(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
