package registry

import (
	"fmt"

	"campusledger/native/common"
)

var (
	ErrNotAdmin          = fmt.Errorf("registry: caller is not the administrator: %w", common.ErrAuthorization)
	ErrStudentNotActive  = fmt.Errorf("registry: student not registered or inactive: %w", common.ErrAuthorization)
	ErrProviderNotActive = fmt.Errorf("registry: provider not registered or inactive: %w", common.ErrState)
	ErrProviderNotFound  = fmt.Errorf("registry: provider does not exist: %w", common.ErrValidation)
	ErrStudentNotFound   = fmt.Errorf("registry: student does not exist: %w", common.ErrValidation)
	ErrEmptyProviderName = fmt.Errorf("registry: provider name required: %w", common.ErrValidation)
	ErrNilState          = fmt.Errorf("registry: state not configured: %w", common.ErrState)
)
