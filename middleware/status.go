package middleware

import "net/http"

// statusFor is the status the app will send when nothing was written yet:
// 200, or 500 once the error handler takes over.
func statusFor(err error) int {
	if err != nil {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
