// Package recaptcha verifies comment submission tokens against Google's
// siteverify endpoint.
package recaptcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const defaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks whether a submitted token is valid.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// ClientOptions controls how the verification client is initialised.
type ClientOptions struct {
	Secret     string
	VerifyURL  string
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// Client calls the siteverify endpoint with the configured secret.
type Client struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
	logger     *logrus.Logger
}

const defaultVerifyTimeout = 10 * time.Second

// NewClient constructs a verification client.
func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, eris.New("recaptcha secret is required")
	}

	verifyURL := strings.TrimSpace(opts.VerifyURL)
	if verifyURL == "" {
		verifyURL = defaultVerifyURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultVerifyTimeout}
	}

	return &Client{
		secret:     opts.Secret,
		verifyURL:  verifyURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token to the verification endpoint. A false result with a
// nil error means the token was rejected, not that the call failed.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, eris.Wrap(err, "building verification request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logError(err, "requesting token verification")
		return false, eris.Wrap(err, "requesting token verification")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("verification endpoint returned status %d", resp.StatusCode)
		c.logError(err, "token verification error response")
		return false, err
	}

	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logError(err, "decoding verification response")
		return false, eris.Wrap(err, "decoding verification response")
	}

	if !payload.Success && c.logger != nil && len(payload.ErrorCodes) > 0 {
		c.logger.WithField("error_codes", payload.ErrorCodes).Debug("token rejected")
	}

	return payload.Success, nil
}

func (c *Client) logError(err error, message string) {
	if c.logger == nil {
		return
	}
	c.logger.WithField("error", err.Error()).Error(message)
}
