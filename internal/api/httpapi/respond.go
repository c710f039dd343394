package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Printf("encode response: %v", err)
	}
}

// writeError renders a domain error with its mapped status. Anything that is
// not a domain error is logged and reported as an opaque 500.
func (a *API) writeError(w http.ResponseWriter, err error) {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		a.writeJSON(w, domainErr.Code.HTTPStatus(), errorBody{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
		})
		return
	}
	a.logger.Printf("internal error: %v", err)
	a.writeJSON(w, http.StatusInternalServerError, errorBody{
		Code:    string(apperrors.CodeUnknown),
		Message: "internal error",
	})
}

// decodeJSON reads a bounded JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.New(apperrors.CodeInvalidArgument, "request body is required")
		}
		return apperrors.Wrap(apperrors.CodeInvalidArgument, fmt.Sprintf("malformed request body: %v", err), err)
	}
	return nil
}
