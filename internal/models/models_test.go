package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncident_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Incident
	}{
		{
			name:  "String fields",
			input: `{"id":"123","date":"2024-01-01","hour":"10:00","natureza":"Incêndio","concelho":"Aveiro","localidade":"Glória","lat":"40.64","lng":"-8.65"}`,
			expected: Incident{
				ID: "123", Date: "2024-01-01", Hour: "10:00",
				Natureza: "Incêndio", Concelho: "Aveiro", Localidade: "Glória",
				Lat: "40.64", Lng: "-8.65",
			},
		},
		{
			name:  "Numeric id and coordinates",
			input: `{"id":2024123456,"natureza":"Acidente","lat":40.64,"lng":-8.65}`,
			expected: Incident{
				ID: "2024123456", Natureza: "Acidente",
				Lat: "40.64", Lng: "-8.65",
			},
		},
		{
			name:     "Null coordinates",
			input:    `{"id":"7","lat":null,"lng":null}`,
			expected: Incident{ID: "7"},
		},
		{
			name:     "Missing coordinates",
			input:    `{"id":"8","concelho":"Sertã"}`,
			expected: Incident{ID: "8", Concelho: "Sertã"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Incident
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNotificationPayload_HasPhoto(t *testing.T) {
	assert.False(t, NotificationPayload{}.HasPhoto())
	assert.False(t, NotificationPayload{PhotoURL: "  "}.HasPhoto())
	assert.True(t, NotificationPayload{PhotoURL: "https://example.com/map.png"}.HasPhoto())
}
