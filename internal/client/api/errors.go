package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/echoline/internal/common"
)

// Error is the uniform failure shape produced by the gateway: an HTTP status
// (0 for transport failures) plus the human-readable message the server sent.
// It unwraps to the matching common sentinel so errors.Is works across layers.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s", e.Message)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	switch {
	case e.Status == 0 || e.Status >= http.StatusInternalServerError:
		if e.Status == 0 {
			return common.ErrUnavailable
		}
		return common.ErrorInternal
	case e.Status == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case e.Status == http.StatusNotFound:
		return common.ErrorNotFound
	default:
		return nil
	}
}

// IsUnauthorized reports whether err is a 401-class gateway failure, the
// consuming layer's signal to drop the session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, common.ErrorUnauthorized)
}
