// AngelaMos | 2026
// phone_test.go

package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostapp/kost-api/internal/core"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "dashed local number", input: "0812-3456-7890", want: "081234567890"},
		{name: "international with plus", input: "+62 812 3456 7890", want: "6281234567890"},
		{name: "dots and parens", input: "(0812).3456.7890", want: "081234567890"},
		{name: "bare digits", input: "081234567890", want: "081234567890"},
		{name: "letters rejected", input: "abc", wantErr: true},
		{name: "too short", input: "123", wantErr: true},
		{name: "too long", input: "1234567890123456", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "digits with letter", input: "08123456789x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, core.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusOccupying(t *testing.T) {
	assert.True(t, StatusActive.Occupying())
	assert.True(t, StatusDP.Occupying())
	assert.False(t, StatusLate.Occupying())
	assert.False(t, StatusInactive.Occupying())
	assert.False(t, StatusMovedOut.Occupying())
	assert.False(t, StatusRenovation.Occupying())

	assert.False(t, Status("unknown").Valid())
	assert.True(t, StatusMovedOut.Valid())
}
