package auth

import "errors"

// ErrNotAuthenticated is returned by Guard before any network activity
// when credentials are missing.
var ErrNotAuthenticated = errors.New("Not authenticated.")

// Guard is the single chokepoint for authenticated calls: it rejects when
// either the user or the token is missing, otherwise invokes the action
// with the token and propagates its result unchanged. No retries, no
// caching, no timeouts. Call sites close over any extra arguments.
func Guard[T any](user *User, token string, action func(token string) (T, error)) (T, error) {
	if user == nil || token == "" {
		var zero T
		return zero, ErrNotAuthenticated
	}
	return action(token)
}
