package progress

import (
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// NewNopSink creates a new no-op progress sink
func NewNopSink() usecase.ProgressSink {
	return usecase.NopProgress{}
}
