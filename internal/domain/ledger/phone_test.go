package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	t.Run("accepts plain 10-digit number", func(t *testing.T) {
		key, err := NormalizePhone("9876543210")

		require.NoError(t, err)
		assert.Equal(t, PhoneKey("9876543210"), key)
	})

	t.Run("strips formatting characters", func(t *testing.T) {
		key, err := NormalizePhone("+91 98765 43210")

		require.NoError(t, err)
		assert.Equal(t, PhoneKey("9876543210"), key)
	})

	t.Run("strips 0091 prefix", func(t *testing.T) {
		key, err := NormalizePhone("00919876543210")

		require.NoError(t, err)
		assert.Equal(t, PhoneKey("9876543210"), key)
	})

	t.Run("strips 91 prefix", func(t *testing.T) {
		key, err := NormalizePhone("919876543210")

		require.NoError(t, err)
		assert.Equal(t, PhoneKey("9876543210"), key)
	})

	t.Run("strips single leading zero", func(t *testing.T) {
		key, err := NormalizePhone("09876543210")

		require.NoError(t, err)
		assert.Equal(t, PhoneKey("9876543210"), key)
	})

	t.Run("keeps prefix when stripping would leave fewer than 10 digits", func(t *testing.T) {
		// 91 followed by 8 digits is a 10-digit number, not a prefixed one
		key, err := NormalizePhone("9187654321")

		require.NoError(t, err)
		assert.Equal(t, PhoneKey("9187654321"), key)
	})

	t.Run("accepts 10 digits outside the 6-9 mobile class", func(t *testing.T) {
		key, err := NormalizePhone("1234567890")

		require.NoError(t, err)
		assert.Equal(t, PhoneKey("1234567890"), key)
		assert.False(t, key.IsIndianMobile())
	})

	t.Run("fails on short input", func(t *testing.T) {
		_, err := NormalizePhone("12345")

		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("fails on empty input", func(t *testing.T) {
		_, err := NormalizePhone("")

		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("fails on overlong unprefixed input", func(t *testing.T) {
		_, err := NormalizePhone("123456789012345")

		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("fails on letters only", func(t *testing.T) {
		_, err := NormalizePhone("not-a-phone")

		assert.ErrorIs(t, err, ErrInvalidPhone)
	})
}

func TestPhoneKeyIsIndianMobile(t *testing.T) {
	assert.True(t, PhoneKey("9876543210").IsIndianMobile())
	assert.True(t, PhoneKey("6000000000").IsIndianMobile())
	assert.False(t, PhoneKey("5876543210").IsIndianMobile())
	assert.False(t, PhoneKey("987").IsIndianMobile())
}
