package services

import (
	"fmt"

	murmur_errors "murmur/pkg/errors"
)

func invalidInput(msg string) error {
	return fmt.Errorf("%s: %w", msg, murmur_errors.ErrInvalidInput)
}
