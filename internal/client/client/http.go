package client

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
	"net/url"
	"strings"

	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/dmitrijs2005/arch1v/internal/client/navigation"
	"github.com/dmitrijs2005/arch1v/internal/common"
	"github.com/dmitrijs2005/arch1v/internal/logging"
	"github.com/gabriel-vasile/mimetype"
)

const (
	sniffLen     = 3072
	maxErrorBody = 64 << 10
)

type HTTPOptions struct {
	BaseURL string
	Session SessionSource
	Nav     Navigator
	Logger  logging.Logger
	// HTTPClient defaults to a client without timeout; callers bound
	// requests through the context.
	HTTPClient *http.Client
}

// HTTPClient implements Archive over the server's HTTP/JSON API.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	session SessionSource
	nav     Navigator
	log     logging.Logger
}

var _ Archive = (*HTTPClient)(nil)

func NewHTTPClient(opt HTTPOptions) (*HTTPClient, error) {
	if opt.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	u, err := url.Parse(opt.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opt.BaseURL)
	}

	hc := opt.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := opt.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		hc:      hc,
		session: opt.Session,
		nav:     opt.Nav,
		log:     log,
	}, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	var s models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", credentials{username, password}, &s); err != nil {
		return nil, err
	}
	if !s.Valid() {
		return nil, fmt.Errorf("login response: %w", common.ErrInvalidSession)
	}
	return &s, nil
}

// Upload streams r as the multipart field "file". The part's content type is
// sniffed from the head of r.
func (c *HTTPClient) Upload(ctx context.Context, name string, r io.Reader) (*models.UploadOutcome, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	head = head[:n]
	ctype := mimetype.Detect(head).String()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreatePart(filePartHeader(name, ctype))
		if err == nil {
			_, err = io.Copy(part, io.MultiReader(bytes.NewReader(head), r))
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	var out models.UploadOutcome
	if err := c.do(ctx, http.MethodPost, "/api/files/upload", pr, mw.FormDataContentType(), &out); err != nil {
		_ = pr.Close()
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) List(ctx context.Context) ([]models.FileRecord, error) {
	var out []models.FileRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/all", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.FileRecord{}
	}
	return out, nil
}

func (c *HTTPClient) Locate(ctx context.Context, hash string) (*models.LocateResult, error) {
	var out models.LocateResult
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/locate/"+url.PathEscape(hash), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Delete(ctx context.Context, hash string) (*models.DeleteResult, error) {
	var out models.DeleteResult
	if err := c.doJSON(ctx, http.MethodDelete, "/api/files/delete/"+url.PathEscape(hash), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Clear(ctx context.Context) (*models.ClearResult, error) {
	var out models.ClearResult
	if err := c.doJSON(ctx, http.MethodDelete, "/api/files/clear", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var (
		buf   io.Reader
		ctype string
	)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
		ctype = "application/json"
	}
	return c.do(ctx, method, path, buf, ctype, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+token)
		}
	}

	c.log.Debug(ctx, "request", "method", method, "path", path)

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Warn(ctx, "session rejected by server", "path", path)
		if c.session != nil {
			c.session.Logout(ctx)
		}
		if c.nav != nil {
			c.nav.Navigate(navigation.PathAuth)
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newRequestError(resp.StatusCode, errorText(b))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// errorText picks the server's message out of an error body.
func errorText(b []byte) string {
	var er struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &er) == nil {
		if er.Message != "" {
			return er.Message
		}
		if er.Error != "" {
			return er.Error
		}
	}
	return strings.TrimSpace(string(b))
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(name, contentType string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)
	return h
}
