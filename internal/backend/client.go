// Package backend talks to the upload and embed-generation HTTP endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vidembed/internal/domain"
	"vidembed/internal/infra"
)

// ErrNoMarkup indicates a successful response without embed code.
var ErrNoMarkup = errors.New("backend: empty embed code")

// Options configures the backend client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client implements domain.Uploader and domain.EmbedGenerator over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type uploadResponse struct {
	ID       string `json:"id"`
	VideoURL string `json:"videoUrl"`
}

type generateResponse struct {
	EmbedCode string `json:"embedCode"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 2 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload sends the blob as the "video" multipart field and returns the
// asset URL assigned by the server.
func (c *Client) Upload(ctx context.Context, media *domain.LocalMedia) (string, error) {
	if media == nil || media.Blob == nil {
		return "", errors.New("backend: media is required")
	}
	rc, err := media.Blob.Open()
	if err != nil {
		return "", fmt.Errorf("backend: open media: %w", err)
	}
	defer rc.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(writeMultipart(mw, media, rc))
	}()
	defer func() {
		pr.Close()
		<-done
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", pr)
	if err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var decoded uploadResponse
	if err := c.do(req, &decoded); err != nil {
		return "", err
	}
	if decoded.VideoURL == "" {
		return "", errors.New("backend: upload response without videoUrl")
	}
	c.logger.Debug().Str("id", decoded.ID).Str("url", decoded.VideoURL).Msg("upload complete")
	return decoded.VideoURL, nil
}

func writeMultipart(mw *multipart.Writer, media *domain.LocalMedia, r io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename=%q`, media.Name))
	h.Set("Content-Type", media.MIMEType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}

// Generate asks the server for embed markup.
func (c *Client) Generate(ctx context.Context, in domain.EmbedRequest) (string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("backend: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate-embed", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var decoded generateResponse
	if err := c.do(req, &decoded); err != nil {
		return "", err
	}
	if decoded.EmbedCode == "" {
		return "", ErrNoMarkup
	}
	return decoded.EmbedCode, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
			return fmt.Errorf("backend: %s (%s)", detail.Error.Message, detail.Error.Code)
		}
		return fmt.Errorf("backend: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

var (
	_ domain.Uploader       = (*Client)(nil)
	_ domain.EmbedGenerator = (*Client)(nil)
)
