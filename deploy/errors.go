package deploy

import (
	"errors"
	"fmt"
)

// ErrSecretNotFound is returned by Platform.LookupSecret when the named secret
// does not exist. The pipeline turns it into a PreconditionError.
var ErrSecretNotFound = errors.New("secret not found")

// ConfigurationError means the run was rejected before any cloud call was made.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// PreconditionError means a resource the deployment depends on is missing.
// The user has to create it and re-run; nothing was built or deployed.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Msg
}

// StepError wraps a failure from one of the external pipeline steps.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
