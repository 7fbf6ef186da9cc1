package mapdata

import "github.com/pkg/errors"

// ErrInvalidInput is returned when a caller hands the pipeline an argument
// it cannot interpret at all. Incomplete individual records are not errors.
var ErrInvalidInput = errors.New("mapdata: invalid input")
