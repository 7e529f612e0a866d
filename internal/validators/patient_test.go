package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"+998901234567", "+998901234567", true},
		{"+998 90 123 45 67", "+998901234567", true},
		{"901234567", "901234567", true},
		{"+998-90-123", "", false},
		{"++998901234567", "", false},
		{"phone", "", false},
		{"12345", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizePhone(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestIsPatientNameValid(t *testing.T) {
	assert.True(t, IsPatientNameValid("Иванов Иван Иванович"))
	assert.True(t, IsPatientNameValid("  Li  "))
	assert.False(t, IsPatientNameValid("A"))
	assert.False(t, IsPatientNameValid("   "))
	assert.False(t, IsPatientNameValid("Bad\nName"))
}
