package payfast

import (
	"strings"

	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
)

// Endpoints of the payment provider. The sandbox pair is used during
// integration testing against PayFast's own sandbox environment.
const (
	liveProcessURL    = "https://www.payfast.co.za/eng/process"
	sandboxProcessURL = "https://sandbox.payfast.co.za/eng/process"

	liveValidateURL    = "https://www.payfast.co.za/eng/query/validate"
	sandboxValidateURL = "https://sandbox.payfast.co.za/eng/query/validate"
)

// Config carries the merchant credentials and URLs the payment flow needs.
// It is injected at construction time; nothing in this package reads the
// environment directly.
type Config struct {
	// MerchantID and MerchantKey identify the marketplace to PayFast.
	MerchantID  string `env:"WARMNEST_PAYFAST_MERCHANT_ID"`
	MerchantKey string `env:"WARMNEST_PAYFAST_MERCHANT_KEY"`

	// Passphrase is the optional shared signing secret. When set it is
	// appended to every signature base string.
	Passphrase string `env:"WARMNEST_PAYFAST_PASSPHRASE"`

	// AppBaseURL is the public storefront URL used for return and cancel
	// redirects. NotifyBaseURL, when set, receives the server-to-server
	// callback instead; deployments often terminate webhooks on a separate
	// host.
	AppBaseURL    string `env:"WARMNEST_SITE_URL"`
	NotifyBaseURL string `env:"WARMNEST_NOTIFY_URL"`

	// Sandbox selects PayFast's sandbox endpoints instead of live.
	Sandbox bool `env:"WARMNEST_PAYFAST_SANDBOX"`

	// ValidateURL overrides the provider validation endpoint. Tests point
	// it at a local server.
	ValidateURL string `env:"WARMNEST_PAYFAST_VALIDATE_URL"`
}

// Validate reports whether the config can build outbound payment data.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.MerchantID) == "" {
		missing = append(missing, "merchant id")
	}
	if strings.TrimSpace(c.MerchantKey) == "" {
		missing = append(missing, "merchant key")
	}
	if strings.TrimSpace(c.AppBaseURL) == "" {
		missing = append(missing, "app base url")
	}
	if len(missing) > 0 {
		return apperrors.WithMetadata(
			apperrors.CodePaymentConfigMissing,
			"payment configuration missing: "+strings.Join(missing, ", "),
			map[string]string{"missing": strings.Join(missing, ",")},
		)
	}
	return nil
}

// ProcessURL returns the checkout form target for the configured environment.
func (c Config) ProcessURL() string {
	if c.Sandbox {
		return sandboxProcessURL
	}
	return liveProcessURL
}

// validateURL returns the server-to-server confirmation endpoint.
func (c Config) validateURL() string {
	if url := strings.TrimSpace(c.ValidateURL); url != "" {
		return url
	}
	if c.Sandbox {
		return sandboxValidateURL
	}
	return liveValidateURL
}
