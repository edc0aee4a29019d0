package simpledb

import "fmt"

// RemoteError is a structured error returned by the SimpleDB service:
// the request reached the service and was rejected (invalid argument,
// missing domain, quota, auth).
type RemoteError struct {
	Code    string
	Message string
	Status  int // HTTP status of the response
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("simpledb: %s: %s", e.Code, e.Message)
}

// TransportError means the service could not be reached: every attempt
// of the configured retry schedule timed out or failed at the transport
// level.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("simpledb: transport failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
