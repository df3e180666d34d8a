package contact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedEmail string
		expectedPhone string
	}{
		{
			name:          "Email and international phone",
			text:          "Jane Doe\njane.doe@example.com\n+1 555-123-4567\nSeattle, WA",
			expectedEmail: "jane.doe@example.com",
			expectedPhone: "+1 555-123-4567",
		},
		{
			name:          "Uppercase email",
			text:          "JOHN@EXAMPLE.IO",
			expectedEmail: "JOHN@EXAMPLE.IO",
		},
		{
			name:          "Dotted phone",
			text:          "Call 555.123.4567 anytime",
			expectedPhone: "555.123.4567",
		},
		{
			name: "Nothing found",
			text: "Just a name",
		},
		{
			name: "Short digit run is not a phone",
			text: "Room 1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.Equal(t, tt.expectedEmail, got.Email)
			assert.Equal(t, tt.expectedPhone, got.Phone)
		})
	}
}

func TestExtract_OnlySearchesLeadingWindow(t *testing.T) {
	text := strings.Repeat("x", Window) + " late@example.com 555-123-4567"
	got := Extract(text)
	assert.Empty(t, got.Email)
	assert.Empty(t, got.Phone)
}

func TestIsPhone(t *testing.T) {
	assert.True(t, IsPhone("(555) 123-4567"))
	assert.False(t, IsPhone("12345"))
	assert.False(t, IsPhone(""))
}
