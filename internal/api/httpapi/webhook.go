package httpapi

import (
	"io"
	"net/http"

	"github.com/warmnest/warmnest/internal/payfast"
)

// maxITNBodyBytes bounds the webhook form body. Provider callbacks are a few
// hundred bytes.
const maxITNBodyBytes = 64 << 10

// handlePayFastITN receives the provider's payment callback. The contract is
// the provider's, not ours: plain-text bodies, 200 "OK" on acceptance (or a
// non-actionable duplicate), 400 with a terse reason on verification
// failure, 500 "Internal error" when something on our side broke and the
// provider should retry. Details stay in the server log.
func (a *API) handlePayFastITN(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxITNBodyBytes))
	if err != nil {
		a.logger.Printf("itn: read body: %v", err)
		writeITN(w, http.StatusInternalServerError, "Internal error")
		return
	}
	rawBody := string(body)

	notification, err := payfast.ParseNotification(rawBody)
	if err != nil {
		a.logger.Printf("itn rejected: %v", err)
		writeITN(w, http.StatusBadRequest, "Invalid notification")
		return
	}

	result, err := a.reconciler.Process(r.Context(), rawBody, notification)
	if err != nil {
		a.logger.Printf("itn: %v", err)
		writeITN(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if !result.OK {
		writeITN(w, http.StatusBadRequest, result.Reason)
		return
	}
	writeITN(w, http.StatusOK, "OK")
}

func writeITN(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
