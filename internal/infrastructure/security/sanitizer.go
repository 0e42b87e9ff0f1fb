package security

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Sensitive header names that should be redacted.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"proxy-authorization": true,
}

// Sensitive field names in JSON bodies that should be redacted before a
// payload reaches the logs. Includes the claim provenance fields that must
// never appear outside the admin boundary.
var sensitiveFields = []string{
	"password",
	"password_hash",
	"secret",
	"token",
	"firma_digital",
	"ip_address",
	"user_agent",
	"numero_documento",
}

const redactedValue = "[REDACTED]"

// SanitizeHeaders removes sensitive headers from an HTTP header map.
// Returns a new map with sensitive values redacted.
func SanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string)

	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			sanitized[key] = redactedValue
		} else {
			sanitized[key] = strings.Join(values, ", ")
		}
	}

	return sanitized
}

// SanitizeBody redacts sensitive fields from a JSON payload so it can be
// logged. Non-JSON input is wrapped as an opaque string.
func SanitizeBody(body []byte, maxSize int) json.RawMessage {
	if len(body) == 0 {
		return nil
	}

	if maxSize > 0 && len(body) > maxSize {
		truncated := map[string]any{
			"_truncated": true,
			"_size":      len(body),
		}
		result, _ := json.Marshal(truncated)
		return json.RawMessage(result)
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		wrapped := map[string]any{
			"_raw":    string(body),
			"_format": "text",
		}
		result, _ := json.Marshal(wrapped)
		return json.RawMessage(result)
	}

	result, err := json.Marshal(sanitizeValue(data))
	if err != nil {
		return nil
	}

	return json.RawMessage(result)
}

// sanitizeValue recursively sanitizes a JSON value.
func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return sanitizeMap(val)
	case []any:
		return sanitizeSlice(val)
	default:
		return val
	}
}

// sanitizeMap sanitizes a JSON object by redacting sensitive fields.
func sanitizeMap(m map[string]any) map[string]any {
	sanitized := make(map[string]any)

	for key, value := range m {
		lowerKey := strings.ToLower(key)

		isSensitive := false
		for _, sensitiveField := range sensitiveFields {
			if strings.Contains(lowerKey, sensitiveField) {
				isSensitive = true
				break
			}
		}

		if isSensitive {
			sanitized[key] = redactedValue
		} else {
			sanitized[key] = sanitizeValue(value)
		}
	}

	return sanitized
}

// sanitizeSlice sanitizes a JSON array by recursively sanitizing each element.
func sanitizeSlice(s []any) []any {
	sanitized := make([]any, len(s))

	for i, value := range s {
		sanitized[i] = sanitizeValue(value)
	}

	return sanitized
}
