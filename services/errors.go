package services

import (
	"errors"
	"fmt"

	"pdf-rag-platform/models"
)

// PolicyRejectionError signals that the PII gate fired. It is a
// designed outcome with an explanatory payload, not a server fault.
type PolicyRejectionError struct {
	Message  string
	Entities []models.DetectedEntity
}

func (e *PolicyRejectionError) Error() string {
	return e.Message
}

// IsPolicyRejection reports whether err is a PII-gate rejection and
// returns it for access to the explanation and entities.
func IsPolicyRejection(err error) (*PolicyRejectionError, bool) {
	var rejection *PolicyRejectionError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

// FatalInputError marks an unreadable or corrupt source document. It
// aborts the single document's ingestion and never affects siblings
// in a batch.
type FatalInputError struct {
	SourcePath string
	Err        error
}

func (e *FatalInputError) Error() string {
	return fmt.Sprintf("unreadable source document %s: %v", e.SourcePath, e.Err)
}

func (e *FatalInputError) Unwrap() error { return e.Err }
