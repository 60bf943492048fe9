package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"product-api/internal/model"
	"product-api/internal/validator"
)

// maxBodyBytes bounds request bodies inspected by ValidateBody.
const maxBodyBytes = 1 << 20

// ValidateBody checks the JSON request body against rules before the handler
// runs. The body is restored so the handler can decode it again.
func ValidateBody(rules []validator.Rule, onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
			if err != nil {
				onError(w, r, model.NewBadRequestError("Invalid request body"))
				return
			}
			if len(raw) > maxBodyBytes {
				onError(w, r, model.NewAppError(model.KindBadRequest, http.StatusRequestEntityTooLarge, "Request body too large"))
				return
			}

			var input map[string]any
			if err := json.Unmarshal(raw, &input); err != nil || input == nil {
				onError(w, r, model.NewBadRequestError("Invalid request body"))
				return
			}

			if failures := validator.Validate(input, rules); len(failures) > 0 {
				onError(w, r, model.NewValidationError(failures...))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			next.ServeHTTP(w, r)
		})
	}
}
