package middleware

import (
	"cmp"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/uishell/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders converts headers to slog attributes sorted by name. Headers
// listed in logging.SensitiveHeaders are replaced with "[REDACTED]" and
// multi-value headers are joined with a comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(headers))
	for key, vals := range headers {
		value := strings.Join(vals, ",")
		if logging.SensitiveHeaders[strings.ToLower(key)] {
			value = redacted
		}
		attrs = append(attrs, slog.String(key, value))
	}
	slices.SortFunc(attrs, func(a, b slog.Attr) int { return cmp.Compare(a.Key, b.Key) })
	return attrs
}
