package validation

import (
	"fmt"

	dErrors "mrzgate/pkg/domain-errors"
)

// Request size limits for the document endpoints. They are enforced before
// the decoder runs, so oversized input is a validation error rather than a
// document rejection.
const (
	// MaxBatchItems is the maximum number of MRZ texts per batch request.
	MaxBatchItems = 50

	// MaxMRZLength is the maximum length of one submitted MRZ text. The
	// longest layout is 90 characters; the rest leaves room for line breaks
	// and surrounding whitespace.
	MaxMRZLength = 200
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachStringLength reports the first element longer than max by index.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for i, v := range values {
		if err := CheckStringLength(fmt.Sprintf("%s[%d]", fieldName, i), v, max); err != nil {
			return err
		}
	}
	return nil
}
