package memory

import "github.com/secmon-lab/riskscore/pkg/domain/model"

// ErrNotFound is returned when a record does not exist. It is model.ErrNotFound so callers can
// check it without knowing the backend.
var ErrNotFound = model.ErrNotFound
