// Package logfields centralizes canonical slog field names so log keys do not
// drift across packages.
package logfields

import "log/slog"

const (
	KeyRequestID  = "request_id"
	KeyLanguage   = "language"
	KeyLocale     = "locale"
	KeyBundle     = "bundle"
	KeyRule       = "rule"
	KeyErrorCode  = "error_code"
	KeyEncoding   = "encoding"
	KeyTextLen    = "text_len"
	KeyErrCount   = "err_count"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Language(l string) slog.Attr     { return slog.String(KeyLanguage, l) }
func Locale(l string) slog.Attr       { return slog.String(KeyLocale, l) }
func Bundle(name string) slog.Attr    { return slog.String(KeyBundle, name) }
func Rule(id string) slog.Attr        { return slog.String(KeyRule, id) }
func ErrorCode(c string) slog.Attr    { return slog.String(KeyErrorCode, c) }
func Encoding(e string) slog.Attr     { return slog.String(KeyEncoding, e) }
func TextLen(n int) slog.Attr         { return slog.Int(KeyTextLen, n) }
func ErrCount(n int) slog.Attr        { return slog.Int(KeyErrCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Status(s int) slog.Attr          { return slog.Int(KeyStatus, s) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
