package reputation

import (
	"fmt"

	"campusledger/native/common"
)

var (
	ErrProviderNotRatable = fmt.Errorf("reputation: provider not registered or inactive: %w", common.ErrValidation)
	ErrRatingOutOfRange   = fmt.Errorf("reputation: rating must be between 1 and 5: %w", common.ErrValidation)
	ErrAlreadyRated       = fmt.Errorf("reputation: already rated: %w", common.ErrValidation)
	ErrNilState           = fmt.Errorf("reputation: state not configured: %w", common.ErrState)
)
