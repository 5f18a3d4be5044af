package token

import (
	"fmt"

	"campusledger/native/common"
)

var (
	ErrInsufficientBalance = fmt.Errorf("token: insufficient balance: %w", common.ErrState)
	ErrInvalidAmount       = fmt.Errorf("token: amount must be positive: %w", common.ErrValidation)
	ErrNilState            = fmt.Errorf("token: state not configured: %w", common.ErrState)
)
