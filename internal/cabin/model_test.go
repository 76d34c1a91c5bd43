package cabin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCabinValidate(t *testing.T) {
	valid := Cabin{Name: "Pine Hollow", MaxCapacity: 4, Price: 250, Discount: 25}

	tests := []struct {
		name    string
		mutate  func(*Cabin)
		wantErr error
	}{
		{"valid", func(c *Cabin) {}, nil},
		{"zero discount", func(c *Cabin) { c.Discount = 0 }, nil},
		{"missing name", func(c *Cabin) { c.Name = "" }, ErrNameRequired},
		{"negative price", func(c *Cabin) { c.Price = -1 }, ErrNegativePrice},
		{"negative discount", func(c *Cabin) { c.Discount = -1 }, ErrNegativePrice},
		{"discount equals price", func(c *Cabin) { c.Discount = c.Price }, ErrDiscountTooLarge},
		{"discount above price", func(c *Cabin) { c.Discount = c.Price + 1 }, ErrDiscountTooLarge},
		{"zero capacity", func(c *Cabin) { c.MaxCapacity = 0 }, ErrInvalidCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCabinEffectiveRate(t *testing.T) {
	c := Cabin{Price: 250, Discount: 25}
	assert.Equal(t, int64(225), c.EffectiveRate())

	c.Discount = 0
	assert.Equal(t, int64(250), c.EffectiveRate())
}
