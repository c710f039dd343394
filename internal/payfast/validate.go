package payfast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/warmnest/warmnest/internal/platform/timeouts"
)

// Validator confirms a callback with the provider before any order mutation.
// A forged callback with a structurally valid signature still fails here
// because the provider has no record of the transaction.
type Validator interface {
	Validate(ctx context.Context, rawBody string) (bool, error)
}

// HTTPValidator re-posts the raw callback body to the provider's validate
// endpoint and requires the literal response body "VALID".
type HTTPValidator struct {
	client *http.Client
	url    string
}

// NewHTTPValidator builds a validator for the configured environment.
func NewHTTPValidator(cfg Config) *HTTPValidator {
	return &HTTPValidator{
		client: &http.Client{Timeout: timeouts.PayFastValidate},
		url:    cfg.validateURL(),
	}
}

// Validate reports whether the provider acknowledged the callback. A non
// "VALID" body is a clean rejection; transport failures are returned as
// errors so the webhook can answer 500 and let the provider retry.
func (v *HTTPValidator) Validate(ctx context.Context, rawBody string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, strings.NewReader(rawBody))
	if err != nil {
		return false, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("call validate endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return false, fmt.Errorf("read validate response: %w", err)
	}
	return string(body) == "VALID", nil
}

var _ Validator = (*HTTPValidator)(nil)
