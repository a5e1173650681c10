package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsInjection(t *testing.T) {
	cases := map[string]struct {
		input    interface{}
		expected bool
	}{
		"plain string":    {"hello world", false},
		"script tag":      {"<script>alert(1)</script>", true},
		"spaced tag":      {"< ScRiPt src=x>", true},
		"javascript url":  {"javascript:alert(1)", true},
		"event handler":   {`<img src=x onerror=alert(1)>`, true},
		"harmless markup": {"5 < 6 and 7 > 3", false},
		"nested two levels deep": {
			map[string]interface{}{
				"profile": map[string]interface{}{
					"bio": "<script>alert(1)</script>",
				},
			},
			true,
		},
		"injection in list": {
			[]interface{}{"clean", "javascript:void(0)"},
			true,
		},
		"injection in map key": {
			map[string]interface{}{"<script>k</script>": "v"},
			true,
		},
		"clean nested payload": {
			map[string]interface{}{
				"name": "Asha",
				"tags": []interface{}{"investor", "kyc-pending"},
			},
			false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ContainsInjection(tc.input))
		})
	}
}

func TestSanitizeStripsTagsKeepsText(t *testing.T) {
	assert.Equal(t, "John", Sanitize("<b>John</b>"))
	assert.Equal(t, "plain", Sanitize("plain"))
	assert.Equal(t, 42.0, Sanitize(42.0))

	out := Sanitize(map[string]interface{}{
		"name":  "<i>Asha</i>",
		"notes": []interface{}{"<p>first</p>", "second"},
	}).(map[string]interface{})

	assert.Equal(t, "Asha", out["name"])
	assert.Equal(t, []interface{}{"first", "second"}, out["notes"])
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("pan-card.jpg", 1024, "image/jpeg"))
	assert.NoError(t, ValidateUpload("statement.pdf", 4*1024*1024, "application/pdf"))
	assert.NoError(t, ValidateUpload("photo.PNG", 1024, ""))

	assert.ErrorIs(t, ValidateUpload("huge.pdf", MaxUploadBytes+1, "application/pdf"), ErrUploadTooLarge)
	assert.ErrorIs(t, ValidateUpload("payload.exe", 1024, "application/octet-stream"), ErrUploadType)
	assert.ErrorIs(t, ValidateUpload("spoofed.jpg", 1024, "text/html"), ErrUploadType)
	assert.ErrorIs(t, ValidateUpload("noextension", 1024, "image/jpeg"), ErrUploadType)
}
