package bootstrap

import "fmt"

// ConfigurationError is a fatal, pre-bootstrap option problem, such as an
// ambiguous identity mode or an unparsable component list.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
