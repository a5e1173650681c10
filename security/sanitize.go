package security

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// Injection patterns the integrity scanner rejects anywhere in a request
// payload: script tags, javascript: URLs and inline event handlers.
var (
	scriptTagPattern    = regexp.MustCompile(`(?i)<\s*script[^>]*>`)
	javascriptPattern   = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ContainsInjection recursively scans a decoded JSON value (string, number,
// list or map) for script-injection patterns.
func ContainsInjection(v interface{}) bool {
	switch val := v.(type) {
	case string:
		return scriptTagPattern.MatchString(val) ||
			javascriptPattern.MatchString(val) ||
			eventHandlerPattern.MatchString(val)
	case []interface{}:
		for _, item := range val {
			if ContainsInjection(item) {
				return true
			}
		}
	case map[string]interface{}:
		for key, item := range val {
			if ContainsInjection(key) || ContainsInjection(item) {
				return true
			}
		}
	}
	return false
}

// Sanitize strips HTML tags from every string in a nested structure,
// keeping inner text. Non-string leaves pass through untouched.
func Sanitize(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(htmlTagPattern.ReplaceAllString(val, ""))
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = Sanitize(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for key, item := range val {
			out[key] = Sanitize(item)
		}
		return out
	}
	return v
}

// Upload validation errors
var (
	ErrUploadTooLarge = errors.New("uploaded file exceeds the size limit")
	ErrUploadType     = errors.New("uploaded file type is not allowed")
)

// MaxUploadBytes is the ceiling for KYC attachment uploads.
const MaxUploadBytes = 5 * 1024 * 1024

var allowedUploadTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

// ValidateUpload checks a file's size, extension and declared MIME type
// against the allow-list.
func ValidateUpload(filename string, size int64, contentType string) error {
	if size > MaxUploadBytes {
		return ErrUploadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	expected, ok := allowedUploadTypes[ext]
	if !ok {
		return ErrUploadType
	}
	if contentType != "" && contentType != expected {
		return ErrUploadType
	}
	return nil
}
