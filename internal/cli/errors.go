package cli

import (
	"errors"
	"fmt"
	"net/http"

	"jendo-cli/internal/api"
)

var errNotSignedIn = errors.New("not signed in; run `jendo login --email ... --password ...`")

type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func errUsage(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// reportedError marks an error already printed by writeErr.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already shown to the user. Errors from
// flag parsing and argument validation are not.
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// errorText is what the user sees on stderr: input and server messages as
// the API phrased them, transport failures with their cause.
func errorText(err error) string {
	var inErr *api.InputError
	if errors.As(err, &inErr) {
		return inErr.Message
	}
	var srvErr *api.ServerError
	if errors.As(err, &srvErr) {
		if srvErr.Status == http.StatusUnauthorized && srvErr.Op != "login" {
			return "session expired or invalid; run `jendo login` again"
		}
		return srvErr.Error()
	}
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return "cannot reach server: " + netErr.Err.Error()
	}
	return err.Error()
}
