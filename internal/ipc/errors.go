package ipc

import (
	"encoding/json"
	"errors"
	"net/rpc"

	"wordcore/internal/services"
)

// RemoteError is an error returned by the server. It unwraps to the services
// sentinel matching Kind.
type RemoteError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel for the error kind, or nil for internal errors.
func (e *RemoteError) Unwrap() error {
	return services.MarkerForKind(e.Kind)
}

func encodeError(err error) error {
	if err == nil {
		return nil
	}
	payload, marshalErr := json.Marshal(RemoteError{Kind: services.ErrorKind(err), Message: err.Error()})
	if marshalErr != nil {
		return err
	}
	return errors.New(string(payload))
}

func decodeError(err error) error {
	var serverErr rpc.ServerError
	if !errors.As(err, &serverErr) {
		return err
	}
	var remote RemoteError
	if jsonErr := json.Unmarshal([]byte(serverErr), &remote); jsonErr != nil || remote.Kind == "" {
		return err
	}
	return &remote
}
