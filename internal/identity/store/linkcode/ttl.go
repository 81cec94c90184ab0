// Package linkcode stores short-lived, single-use codes that let a signed-in
// person claim another session's identity group.
package linkcode

import (
	"fmt"
	"time"

	dErrors "idlink/pkg/domain-errors"
)

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("link code ttl must be positive, got %s", ttl))
	}
	return nil
}
