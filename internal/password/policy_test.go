package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     []error
	}{
		{
			name:     "valid password",
			password: "Abcdef1!",
			want:     nil,
		},
		{
			name:     "too short",
			password: "Abc1!xy",
			want:     []error{ErrTooShort},
		},
		{
			name:     "missing lowercase",
			password: "ABCDEF1!",
			want:     []error{ErrMissingLowercase},
		},
		{
			name:     "missing uppercase",
			password: "abcdef1!",
			want:     []error{ErrMissingUppercase},
		},
		{
			name:     "missing digit",
			password: "Abcdefg!",
			want:     []error{ErrMissingDigit},
		},
		{
			name:     "missing symbol",
			password: "Abcdefg1",
			want:     []error{ErrMissingSymbol},
		},
		{
			name:     "symbol outside allowed set does not count",
			password: "Abcdefg1?",
			want:     []error{ErrMissingSymbol},
		},
		{
			name:     "empty password fails everything",
			password: "",
			want: []error{
				ErrTooShort,
				ErrMissingLowercase,
				ErrMissingUppercase,
				ErrMissingDigit,
				ErrMissingSymbol,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Validate(tt.password)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateAllowedSymbols(t *testing.T) {
	t.Parallel()

	// Every character in the allowed set satisfies the symbol rule.
	for _, sym := range "!@#$%^&*" {
		require.Empty(t, Validate("Abcdef1"+string(sym)), "symbol %q should be accepted", sym)
	}
}
