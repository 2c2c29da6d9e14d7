package utils_test

import (
	"testing"

	"github.com/jrsteele09/gym-checkin/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestDigitsOnly(t *testing.T) {
	require.Equal(t, "0712345678", utils.DigitsOnly("07 12-34.56 78", 10))
	require.Equal(t, "0712345678", utils.DigitsOnly("071234567899", 10))
	require.Equal(t, "", utils.DigitsOnly("abc", 10))
	require.Equal(t, "123456", utils.DigitsOnly("1a2b3c4d5e6f", 0))
}

func TestAtoiDefault(t *testing.T) {
	require.Equal(t, 7, utils.AtoiDefault("7", 1))
	require.Equal(t, 1, utils.AtoiDefault("", 1))
	require.Equal(t, 1, utils.AtoiDefault("july", 1))
}

func TestToStringSlice(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, utils.ToStringSlice([]any{"a", 1, "b", nil}))
	require.Empty(t, utils.ToStringSlice(nil))
}
