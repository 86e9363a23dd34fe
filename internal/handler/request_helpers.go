package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/accrabet/accrabet/internal/logger"
)

// HeaderUserID carries the caller's identity, stamped by the auth middleware.
// Authentication itself lives with the identity collaborator; this service
// only consumes the resolved user id.
const HeaderUserID = "X-User-ID"

// DefaultMovementLimit bounds how many movements a wallet read returns
const DefaultMovementLimit = 50

// DecodeAndValidateRequest decodes a JSON request body, validates it, and
// writes the error response itself on failure. If this function returns an
// error the handler should return immediately.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		validationErrs := FormatValidationError(err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: validationErrs,
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// UserIDFromRequest extracts the authenticated user id stamped on the
// request. Writes a 400 response and returns false when absent or malformed.
func UserIDFromRequest(r *http.Request, w http.ResponseWriter) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(HeaderUserID))
	if err != nil {
		http.Error(w, ErrMsgMissingUserID, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// GetQueryParam retrieves a required query parameter, writing an error
// response and returning false when it is missing.
func GetQueryParam(r *http.Request, w http.ResponseWriter, param string) (string, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		http.Error(w, fmt.Sprintf(ErrMsgMissingQueryParam, param), http.StatusBadRequest)
		return "", false
	}
	return value, true
}

// GetLimitParam parses an optional positive "limit" query parameter,
// falling back to def when absent.
func GetLimitParam(r *http.Request, w http.ResponseWriter, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		http.Error(w, ErrMsgInvalidLimit, http.StatusBadRequest)
		return 0, false
	}
	return limit, true
}

type contextKey string

const clientIPKey contextKey = "client_ip"

// WithClientIP stores the resolved client address on the context. The server
// middleware resolves it once, honoring trusted proxy headers.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the resolved client address, falling back to RemoteAddr
// when no middleware stamped one.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return r.RemoteAddr
}
