package mcx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeDotNetDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "embedded offset",
			value: "/Date(1700000000000+0530)/",
			want:  "2023-11-15 03:43:20",
		},
		{
			name:  "no offset defaults to IST",
			value: "/Date(1700000000000)/",
			want:  "2023-11-15 03:43:20",
		},
		{
			name:  "negative offset",
			value: "/Date(1700000000000-0500)/",
			want:  "2023-11-14 17:13:20",
		},
		{
			name:  "sentinel negative millis",
			value: "/Date(-1)/",
			want:  "",
		},
		{
			name:  "sentinel zero millis",
			value: "/Date(0)/",
			want:  "",
		},
		{
			name:  "plain string passes through",
			value: "28NOV2025",
			want:  "28NOV2025",
		},
		{
			name:  "malformed date passes through",
			value: "/Date(abc)/",
			want:  "/Date(abc)/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeDotNetDate(tt.value))
		})
	}
}
