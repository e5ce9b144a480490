package log

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const redacted = "[redacted]"

// sensitiveKeys are masked whatever value they carry. The platform echoes
// credentials back in its sign-in reply and those must never reach a log sink.
var sensitiveKeys = map[string]struct{}{
	"password": {},
	"token":    {},
	"secret":   {},
}

// toFields converts key/value pairs into zap fields.
// A bare error or zap.Field is accepted in place of a pair. A trailing value
// without a key is kept under "arg#N".
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2+1)

	for i := 0; i < len(args); {
		switch v := args[i].(type) {
		case zap.Field:
			fields = append(fields, v)
			i++
			continue
		case error:
			fields = append(fields, zap.Error(v))
			i++
			continue
		}

		if i == len(args)-1 {
			fields = append(fields, zap.Any(fmt.Sprintf("arg#%d", i), args[i]))
			break
		}

		key, val := args[i], args[i+1]
		i += 2

		keyStr, ok := key.(string)
		if !ok {
			fields = append(fields, zap.Any(fmt.Sprintf("invalid_key_%d", i/2), map[string]any{
				"key":   key,
				"value": val,
			}))
			continue
		}

		fields = append(fields, field(keyStr, val))
	}

	return fields
}

func field(key string, val any) zap.Field {
	if isSensitive(key) {
		return zap.String(key, redacted)
	}

	switch v := val.(type) {
	case json.RawMessage:
		// Stream segments and outbound payloads are logged as text, not base64.
		return zap.String(key, string(v))
	case error:
		return zap.NamedError(key, v)
	case time.Time, time.Duration:
		return zap.Any(key, v)
	case fmt.Stringer:
		return zap.Stringer(key, v)
	default:
		return zap.Any(key, v)
	}
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	if i := strings.LastIndexByte(k, '.'); i >= 0 {
		k = k[i+1:]
	}
	_, ok := sensitiveKeys[k]
	return ok
}
