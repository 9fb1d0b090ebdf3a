package validator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Inner inner  `mapstructure:"inner"`
	Mode  string `mapstructure:"mode" validate:"oneof=a b"`
}

type inner struct {
	Low  float64 `mapstructure:"low" validate:"gt=0"`
	High float64 `mapstructure:"high" validate:"gtefield=Low"`
	Addr string  `validate:"omitempty,url"`
}

func TestValidate(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		err := Validate(sample{Inner: inner{Low: 1, High: 2}, Mode: "a"})
		assert.NoError(t, err)
	})

	t.Run("reports config keys", func(t *testing.T) {
		err := Validate(sample{Inner: inner{Low: 0, High: -1, Addr: "::"}, Mode: "c"})
		require.Error(t, err)
		require.True(t, IsValidationError(err))

		verrs := err.(ValidationErrors)
		fields := make(map[string]string)
		for _, e := range verrs {
			fields[e.Field] = e.Message
		}

		assert.Equal(t, "must be greater than 0", fields["inner.low"])
		assert.Equal(t, "must be greater than or equal to Low", fields["inner.high"])
		assert.Equal(t, "must be a valid URL", fields["inner.Addr"])
		assert.Equal(t, "must be one of: a b", fields["mode"])
	})

	t.Run("wrapped errors are still recognised", func(t *testing.T) {
		err := Validate(sample{Mode: "z", Inner: inner{Low: 1, High: 1}})
		require.Error(t, err)
		assert.True(t, IsValidationError(fmt.Errorf("config: %w", err)))
		assert.Contains(t, err.Error(), "mode: must be one of")
	})
}
