package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"campusledger/core/types"
	"campusledger/native/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps the module error classes onto HTTP statuses. Unclassified
// errors are treated as internal faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeBody(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("rpc: decode request: %s: %w", err.Error(), common.ErrValidation)
	}
	return nil
}

func parseAddress(field, raw string) ([20]byte, error) {
	addr, err := types.ParseAddress(raw)
	if err != nil {
		return addr, fmt.Errorf("rpc: %s: %s: %w", field, err.Error(), common.ErrValidation)
	}
	return addr, nil
}

// parseCoins reads a whole-coin decimal string and scales it into ledger
// increments. This is the single display-to-scaled conversion point for
// caller-supplied amounts.
func parseCoins(field, raw string) (*big.Int, error) {
	display, ok := new(big.Int).SetString(raw, 10)
	if !ok || display.Sign() < 0 {
		return nil, fmt.Errorf("rpc: %s must be a non-negative integer coin amount: %w", field, common.ErrValidation)
	}
	return types.ToScaled(display), nil
}
