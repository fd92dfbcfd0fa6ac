package shared

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"upper-cases and trims", "  cust-01 ", "CUST-01", false},
		{"empty", "   ", "", true},
		{"too long", strings.Repeat("A", 51), "", true},
		{"bad characters", "A B", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCode(tt.in, 50)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, NewValidationError("")))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
