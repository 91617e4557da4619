package command

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func challengeDescriptor() *Descriptor {
	return &Descriptor{
		Name:    "challenge",
		Handler: okHandler,
		Options: []Option{
			{
				Name: "object", Type: String, Required: true,
				Choices: []Choice{{Name: "Rock", Value: "rock"}, {Name: "Paper", Value: "paper"}},
			},
			{Name: "rounds", Type: Integer},
			{Name: "public", Type: Boolean},
			{Name: "stake", Type: Number},
		},
	}
}

func TestValidateOptionsByName(t *testing.T) {
	values, err := ValidateOptions(challengeDescriptor(), []Provided{
		{Name: "rounds", Value: float64(3)},
		{Name: "object", Value: "paper"},
		{Name: "public", Value: true},
		{Name: "stake", Value: json.Number("2.5")},
		{Name: "extra", Value: "ignored"},
	})
	require.NoError(t, err)
	require.Len(t, values, 4)

	assert.Equal(t, Value{Name: "object", Type: String, Value: "paper", Set: true}, values[0])
	assert.Equal(t, int64(3), values[1].Value)
	assert.Equal(t, true, values[2].Value)
	assert.Equal(t, 2.5, values[3].Value)
}

func TestValidateOptionsByPosition(t *testing.T) {
	values, err := ValidateOptions(challengeDescriptor(), []Provided{{Value: "rock"}})
	require.NoError(t, err)

	inv := &Invocation{Options: values}
	assert.Equal(t, "rock", inv.String("object"))

	_, ok := inv.Option("rounds")
	assert.False(t, ok, "optional options that were not sent are unset")
	assert.Empty(t, inv.String("missing"))
}

func TestValidateOptionsErrors(t *testing.T) {
	testCases := []struct {
		name     string
		provided []Provided
		wantErr  error
		option   string
	}{
		{name: "missing required", provided: nil, wantErr: ErrMissingRequiredOption, option: "object"},
		{name: "null required", provided: []Provided{{Name: "object", Value: nil}}, wantErr: ErrMissingRequiredOption, option: "object"},
		{name: "wrong string type", provided: []Provided{{Name: "object", Value: float64(1)}}, wantErr: ErrOptionTypeMismatch, option: "object"},
		{name: "not a choice", provided: []Provided{{Name: "object", Value: "lizard"}}, wantErr: ErrOptionTypeMismatch, option: "object"},
		{name: "fractional integer", provided: []Provided{{Name: "object", Value: "rock"}, {Name: "rounds", Value: 1.5}}, wantErr: ErrOptionTypeMismatch, option: "rounds"},
		{name: "integer above range", provided: []Provided{{Name: "object", Value: "rock"}, {Name: "rounds", Value: 1e19}}, wantErr: ErrOptionTypeMismatch, option: "rounds"},
		{name: "integer below range", provided: []Provided{{Name: "object", Value: "rock"}, {Name: "rounds", Value: -1e19}}, wantErr: ErrOptionTypeMismatch, option: "rounds"},
		{name: "string boolean", provided: []Provided{{Name: "object", Value: "rock"}, {Name: "public", Value: "yes"}}, wantErr: ErrOptionTypeMismatch, option: "public"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateOptions(challengeDescriptor(), tc.provided)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)

			var optErr *OptionError
			require.ErrorAs(t, err, &optErr)
			assert.Equal(t, tc.option, optErr.Option)
		})
	}
}

func TestValidateOptionsIntegerBounds(t *testing.T) {
	values, err := ValidateOptions(challengeDescriptor(), []Provided{
		{Name: "object", Value: "rock"},
		{Name: "rounds", Value: float64(math.MinInt64)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), values[1].Value)
}

func TestOptionTypeString(t *testing.T) {
	assert.Equal(t, "string", String.String())
	assert.Equal(t, "integer", Integer.String())
	assert.Equal(t, "OptionType(42)", OptionType(42).String())
}
