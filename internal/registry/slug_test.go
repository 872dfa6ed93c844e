package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "AcmeAcademy", "acmeacademy"},
		{"spaces become hyphens", "Acme Academy", "acme-academy"},
		{"runs collapse", "acme   ***   academy", "acme-academy"},
		{"edges trimmed", "--acme-academy--", "acme-academy"},
		{"inner hyphens kept", "acme--academy", "acme--academy"},
		{"hyphen next to stripped run", "acme-!academy", "acme--academy"},
		{"unicode stripped", "académie", "acad-mie"},
		{"already clean", "acme-academy", "acme-academy"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSlug(tt.in))
		})
	}
}

// Normalization must be idempotent: enrolling by a stored slug and by the
// raw user input must land on the same key.
func TestNormalizeSlug_Idempotent(t *testing.T) {
	inputs := []string{"Acme Academy", "--x--y--", "ABC", "a b c d"}
	for _, in := range inputs {
		once := NormalizeSlug(in)
		assert.Equal(t, once, NormalizeSlug(once), "input %q", in)
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{"valid", "acme-academy", nil},
		{"valid minimal", "abc", nil},
		{"valid double hyphen", "acme--academy", nil},
		{"too short", "ab", ErrInvalidSlug},
		{"empty", "", ErrInvalidSlug},
		{"uppercase rejected", "Acme", ErrInvalidSlug},
		{"leading hyphen", "-acme", ErrInvalidSlug},
		{"trailing hyphen", "acme-", ErrInvalidSlug},
		{"reserved word", "admin", ErrSlugReserved},
		{"reserved api", "api", ErrSlugReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSlug_MaxLength(t *testing.T) {
	long := make([]byte, slugMaxLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, ValidateSlug(string(long)), ErrInvalidSlug)
	assert.NoError(t, ValidateSlug(string(long[:slugMaxLen])))
}
