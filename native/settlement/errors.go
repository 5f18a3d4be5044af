package settlement

import (
	"fmt"

	"campusledger/native/common"
)

var (
	ErrProviderNotActive   = fmt.Errorf("settlement: provider not active: %w", common.ErrState)
	ErrServiceNotAvailable = fmt.Errorf("settlement: service not available: %w", common.ErrState)
	ErrNilState            = fmt.Errorf("settlement: state not configured: %w", common.ErrState)
)
