package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/pointspay/ledger-backend/internal/models"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteLedgerError maps a service error onto the wire envelope.
func WriteLedgerError(w http.ResponseWriter, err error) {
	switch models.KindOf(err) {
	case models.KindInvalidPayload:
		WriteError(w, http.StatusBadRequest, string(models.KindInvalidPayload), err.Error(), nil)
	case models.KindNotFound:
		WriteError(w, http.StatusNotFound, string(models.KindNotFound), err.Error(), nil)
	case models.KindBusiness:
		WriteError(w, http.StatusUnprocessableEntity, string(models.KindBusiness), err.Error(), nil)
	case models.KindUnauthorized:
		WriteError(w, http.StatusUnauthorized, string(models.KindUnauthorized), err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
