package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDurationDefault(t *testing.T) {
	t.Setenv("TEST_DURATION_SECONDS", "3600")
	t.Setenv("TEST_DURATION_GO", "15m")
	t.Setenv("TEST_DURATION_BAD", "soon")

	assert.Equal(t, time.Hour, EnvDurationDefault("TEST_DURATION_SECONDS", time.Second))
	assert.Equal(t, 15*time.Minute, EnvDurationDefault("TEST_DURATION_GO", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("TEST_DURATION_BAD", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("TEST_DURATION_UNSET", time.Second))
}

func TestEnvBoolAndInt(t *testing.T) {
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_INT", "nope")

	assert.False(t, EnvBoolDefault("TEST_BOOL", true))
	assert.True(t, EnvBoolDefault("TEST_BOOL_UNSET", true))
	assert.Equal(t, 7, EnvIntDefault("TEST_INT", 7))
}

func TestRequired(t *testing.T) {
	var r Required
	r.NonEmpty("x", "PRESENT")
	require.NoError(t, r.Err())

	r.NonEmpty("", "AD_SERVER")
	r.NonEmptyBytes(nil, "JWT_SECRET")
	err := r.Err()
	require.Error(t, err)
	assert.Equal(t, "missing required env AD_SERVER, JWT_SECRET", err.Error())
}
