package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/dto"
)

// errInternalServer replaces the panic value in responses.
var errInternalServer = errors.New("internal server error")

// Recovery returns middleware that turns a handler panic into a logged stack
// trace and an RFC 9457 500 response. No response is written when headers
// were already sent or the connection was hijacked by the chrome stream.
// http.ErrAbortHandler is re-panicked so net/http aborts the connection
// quietly.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", w.Header().Get(headerRequestID)),
				)

				if !rw.headerWritten && !rw.hijacked {
					dto.WriteErrorResponse(rw, r, errInternalServer)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
