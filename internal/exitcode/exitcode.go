// Package exitcode defines exit codes for the CLI.
package exitcode

import "net/http"

// Exit codes returned by todoctl.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, invalid form, unknown todo).
	UserError = 1

	// AuthError indicates an auth/config error, including 401/403 answers.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// ForStatus maps a failed HTTP answer to an exit code. Rejected credentials
// are auth errors and a missing record is the user's mistake; everything
// else, including no answer at all (status 0), is a backend error.
func ForStatus(status int) int {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return AuthError
	case http.StatusNotFound:
		return UserError
	default:
		return BackendError
	}
}
