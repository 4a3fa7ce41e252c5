package apihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ivankudzin/profilehub/internal/infra/httpclient"
	authsvc "github.com/ivankudzin/profilehub/internal/services/auth"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
)

// Client is the bot's view of the profile API. Every request is signed
// with the shared HMAC secret so the bot needs no per-user credentials.
type Client struct {
	baseURL    string
	signer     *authsvc.HMACSigner
	httpClient *http.Client
	now        func() time.Time
}

type ProfilePayload struct {
	TelegramID int64   `json:"telegram_id"`
	Name       string  `json:"name"`
	AboutMe    *string `json:"about_me,omitempty"`
	Age        int     `json:"age"`
	City       string  `json:"city"`
	Sex        string  `json:"sex,omitempty"`
}

type profileResponse struct {
	TelegramID int64   `json:"telegram_id"`
	Name       string  `json:"name"`
	AboutMe    *string `json:"about_me"`
	Age        int     `json:"age"`
	City       string  `json:"city"`
	Sex        string  `json:"sex"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func NewClient(baseURL string, signer *authsvc.HMACSigner, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is empty")
	}
	if signer == nil {
		return nil, fmt.Errorf("hmac signer is nil")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api base url: %s", trimmed)
	}

	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		signer:     signer,
		httpClient: httpclient.New(timeout),
		now:        time.Now,
	}, nil
}

func (c *Client) CreateProfile(ctx context.Context, payload ProfilePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal profile payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/users/profiles", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return ErrAlreadyExists
	}
	return c.unexpectedStatus("create profile", resp)
}

func (c *Client) GetProfile(ctx context.Context, telegramID int64) (ProfilePayload, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(telegramID, 10)+"/profiles", nil)
	if err != nil {
		return ProfilePayload{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ProfilePayload{}, ErrNotFound
	default:
		return ProfilePayload{}, c.unexpectedStatus("get profile", resp)
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ProfilePayload{}, fmt.Errorf("decode profile response: %w", err)
	}

	return ProfilePayload{
		TelegramID: body.TelegramID,
		Name:       body.Name,
		AboutMe:    body.AboutMe,
		Age:        body.Age,
		City:       body.City,
		Sex:        body.Sex,
	}, nil
}

func (c *Client) DeleteProfile(ctx context.Context, telegramID int64) error {
	resp, err := c.do(ctx, http.MethodDelete, "/users/"+strconv.FormatInt(telegramID, 10)+"/profiles", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	}
	return c.unexpectedStatus("delete profile", resp)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}

	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	req.Header.Set("X-Timestamp", timestamp)
	req.Header.Set("X-Signature", c.signer.Sign(timestamp))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call profile api: %w", err)
	}

	return resp, nil
}

func (c *Client) unexpectedStatus(op string, resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	if body.Detail != "" {
		return fmt.Errorf("%s: status=%d detail=%s", op, resp.StatusCode, body.Detail)
	}
	return fmt.Errorf("%s: status=%d", op, resp.StatusCode)
}
