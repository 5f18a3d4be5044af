package catalog

import (
	"fmt"

	"campusledger/native/common"
)

var (
	ErrServiceNotFound    = fmt.Errorf("catalog: service does not exist: %w", common.ErrValidation)
	ErrDiscountOutOfRange = fmt.Errorf("catalog: discount above 100 percent: %w", common.ErrValidation)
	ErrEmptyServiceName   = fmt.Errorf("catalog: service name required: %w", common.ErrValidation)
	ErrInvalidPrice       = fmt.Errorf("catalog: price must not be negative: %w", common.ErrValidation)
	ErrNilState           = fmt.Errorf("catalog: state not configured: %w", common.ErrState)
)
