package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_NoDetailsIsNil(t *testing.T) {
	require.NoError(t, New("bad input", nil))
}

func TestNew_CarriesDetailsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("decode: %w", New("bad input", []string{"a is required", "b must be positive"}))

	var ve *Error
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{"a is required", "b must be positive"}, ve.Details)
	require.Equal(t, "decode: bad input: a is required; b must be positive", err.Error())
}
