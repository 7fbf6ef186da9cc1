package service

import (
	"github.com/easytrack/backend/internal/domain"
)

// FieldDataRepository is re-exported from domain for convenience
type FieldDataRepository = domain.FieldDataRepository
