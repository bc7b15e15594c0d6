package codegen

import (
	"errors"
	"fmt"
)

// ErrSchemaInvalid marks a run aborted because validation found at least one
// association violation. The diagnostics themselves are logged before the
// runner returns.
var ErrSchemaInvalid = errors.New("schema validation failed")

// ConfigError reports a run that cannot start: no resolvable generator, or a
// malformed generation setting. Terminal; nothing is written.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// EmissionError reports a failure while producing one specific artifact.
// Remaining artifacts are abandoned; files already written stay on disk.
type EmissionError struct {
	Artifact string
	Err      error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("emit %s: %v", e.Artifact, e.Err)
}

func (e *EmissionError) Unwrap() error { return e.Err }
