// Package kanbanzone implements the service.Service interface against the
// KanbanZone integrations REST API.
package kanbanzone

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"kzone/internal/config"
	"kzone/internal/service"
)

const (
	// userAgent identifies the client to the API.
	userAgent = "kzone-cli"

	// requestIDHeader carries a per-request correlation ID.
	requestIDHeader = "X-Request-Id"
)

// Client implements service.Service over HTTPS.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	log     *slog.Logger
}

// New creates a client authenticating with the configured API key.
// The key is Base64-encoded and sent as a Basic credential.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, service.ConfigError(err)
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: EncodeKey(cfg.APIKey),
		TokenType:   "Basic",
	})
	return NewWithHTTPClient(cfg, oauth2.NewClient(ctx, src)), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client. The HTTP
// client is responsible for authentication.
func NewWithHTTPClient(cfg *config.Config, httpClient *http.Client) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		http:    httpClient,
		baseURL: cfg.BaseURL,
		timeout: timeout,
		log:     logger,
	}
}

// EncodeKey returns the Base64 form of a raw API key.
func EncodeKey(raw string) string {
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// ListBoards returns the organization's boards.
func (c *Client) ListBoards(ctx context.Context, opts service.BoardOptions) (*service.BoardList, error) {
	q := url.Values{}
	setFlag(q, "includeArchived", opts.IncludeArchived)
	setFlag(q, "includeColumns", opts.IncludeColumns)

	var list service.BoardList
	if err := c.do(ctx, http.MethodGet, "/boards", q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetBoard returns a single board.
func (c *Client) GetBoard(ctx context.Context, boardID string, includeColumns bool) (*service.BoardList, error) {
	q := url.Values{}
	setFlag(q, "includeColumns", includeColumns)

	var list service.BoardList
	if err := c.do(ctx, http.MethodGet, "/board/"+url.PathEscape(boardID), q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListCards returns one page of cards.
func (c *Client) ListCards(ctx context.Context, cq service.CardQuery) (*service.CardPage, error) {
	q := url.Values{}
	q.Set("board", cq.Board)
	q.Set("page", strconv.Itoa(cq.Page))
	q.Set("count", strconv.Itoa(cq.Count))
	if cq.DaysSinceUpdate != nil {
		q.Set("daysSinceLastUpdate", strconv.Itoa(*cq.DaysSinceUpdate))
	}
	setFlag(q, "includeArchived", cq.IncludeArchived)

	var page service.CardPage
	if err := c.do(ctx, http.MethodGet, "/cards", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCard returns a card by number.
func (c *Client) GetCard(ctx context.Context, boardID, number string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("board", boardID)
	q.Set("number", number)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/card", q, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CreateCard creates one card. Requests are validated by the caller.
func (c *Client) CreateCard(ctx context.Context, req *service.CreateCardRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/card", nil, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CreateCards creates many cards.
func (c *Client) CreateCards(ctx context.Context, req service.CreateCardsRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/cards", nil, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// UpdateCard applies a partial update.
func (c *Client) UpdateCard(ctx context.Context, number int, req *service.UpdateCardRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, cardPath(number), nil, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// MoveCard moves a card to another column.
func (c *Client) MoveCard(ctx context.Context, number int, req *service.MoveCardRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, cardPath(number)+"/move", nil, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// do performs one request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return service.Validationf("encode request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return service.TransportError(err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(requestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return wrapError(err)
	}
	defer resp.Body.Close()

	c.log.Debug("request", "method", method, "path", path, "request_id", reqID,
		"status", resp.StatusCode, "duration", time.Since(start))

	if err := googleapi.CheckResponse(resp); err != nil {
		return wrapError(err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(err)
	}
	if !json.Valid(data) {
		return &service.Error{
			Kind:    service.KindRemote,
			Message: "unexpected non-JSON response",
			Status:  resp.StatusCode,
			Body:    data,
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &service.Error{
			Kind:    service.KindRemote,
			Message: err.Error(),
			Status:  resp.StatusCode,
			Body:    data,
			Err:     err,
		}
	}
	return nil
}

// wrapError converts transport and HTTP failures into *service.Error.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		return &service.Error{
			Kind:    service.KindRemote,
			Message: msg,
			Status:  gerr.Code,
			Body:    []byte(gerr.Body),
			Err:     err,
		}
	}

	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return &service.Error{Kind: service.KindTransport, Message: "request timed out", Err: err}
	}

	return service.TransportError(err)
}

func setFlag(q url.Values, key string, on bool) {
	if on {
		q.Set(key, "true")
	}
}

func cardPath(number int) string {
	return "/card/" + strconv.Itoa(number)
}
