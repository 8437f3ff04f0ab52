package schema

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	ctx := context.Background()

	t.Run("PassesAndCoercesNumber", func(t *testing.T) {
		v, err := String("").Parse(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, "5", v)
	})

	t.Run("MaxRuleFails", func(t *testing.T) {
		_, err := String("max=4").Parse(ctx, "toolong")

		var is Issues
		require.ErrorAs(t, err, &is)
		require.Len(t, is, 1)
		assert.Equal(t, "max", is[0].Code)
		assert.NotEmpty(t, is[0].Message)
	})

	t.Run("RequiredFailsOnAbsent", func(t *testing.T) {
		_, err := String("required").Parse(ctx, nil)

		var is Issues
		require.ErrorAs(t, err, &is)
		require.Len(t, is, 1)
		assert.Equal(t, "required", is[0].Code)
	})

	t.Run("RequiredFailsOnEmpty", func(t *testing.T) {
		_, err := String("required").Parse(ctx, "")

		var is Issues
		require.ErrorAs(t, err, &is)
		assert.Equal(t, "required", is[0].Code)
	})

	t.Run("OptionalAbsentPasses", func(t *testing.T) {
		v, err := String("max=4").Parse(ctx, nil)

		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestInt(t *testing.T) {
	ctx := context.Background()

	t.Run("CoercesNumericString", func(t *testing.T) {
		v, err := Int("required").Parse(ctx, "42")

		require.NoError(t, err)
		assert.Equal(t, int64(42), v)
	})

	t.Run("CoercesJSONNumber", func(t *testing.T) {
		v, err := Int("").Parse(ctx, float64(7))

		require.NoError(t, err)
		assert.Equal(t, int64(7), v)
	})

	t.Run("RejectsNonNumeric", func(t *testing.T) {
		_, err := Int("required").Parse(ctx, "abc")

		var is Issues
		require.ErrorAs(t, err, &is)
		require.Len(t, is, 1)
		assert.Equal(t, "invalid_type", is[0].Code)
		assert.Equal(t, "must be an integer", is[0].Message)
	})

	t.Run("MinRuleFails", func(t *testing.T) {
		_, err := Int("required,min=18").Parse(ctx, "16")

		var is Issues
		require.ErrorAs(t, err, &is)
		assert.Equal(t, "min", is[0].Code)
	})
}

func TestFloat(t *testing.T) {
	v, err := Float("min=0").Parse(context.Background(), "3.5")

	require.NoError(t, err)
	assert.Equal(t, 3.5, v)
}

func TestBool(t *testing.T) {
	ctx := context.Background()

	v, err := Bool("").Parse(ctx, "true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = Bool("").Parse(ctx, "not-a-bool")
	var is Issues
	require.ErrorAs(t, err, &is)
	assert.Equal(t, "invalid_type", is[0].Code)
}

func TestTime(t *testing.T) {
	ctx := context.Background()

	t.Run("ParsesLayout", func(t *testing.T) {
		v, err := Time("2006-01-02", "").Parse(ctx, "2024-05-01")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), v)
	})

	t.Run("RejectsWrongLayout", func(t *testing.T) {
		_, err := Time("2006-01-02", "").Parse(ctx, "01/05/2024")

		var is Issues
		require.ErrorAs(t, err, &is)
		assert.Equal(t, "invalid_type", is[0].Code)
	})
}

func TestRegisterRule(t *testing.T) {
	err := RegisterRule("vowelstart", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok || s == "" {
			return false
		}
		switch s[0] {
		case 'a', 'e', 'i', 'o', 'u':
			return true
		}
		return false
	}, "{0} must start with a vowel")
	require.NoError(t, err)

	_, err = String("vowelstart").Parse(context.Background(), "banana")

	var is Issues
	require.ErrorAs(t, err, &is)
	assert.Equal(t, "vowelstart", is[0].Code)
	assert.Equal(t, "must start with a vowel", is[0].Message)

	v, err := String("vowelstart").Parse(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, "apple", v)
}
