package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendUint(t *testing.T) {
	assert.Equal(t, "0", string(AppendUint(nil, 0)))
	assert.Equal(t, "seq=4095", string(AppendUint([]byte("seq="), 4095)))
	assert.Equal(t, "18446744073709551615", string(AppendUint(nil, math.MaxUint64)))
}

func TestAppendInt(t *testing.T) {
	assert.Equal(t, "-53", string(AppendInt(nil, -53)))
	assert.Equal(t, "2200", string(AppendInt(nil, 2200)))
	assert.Equal(t, "-9223372036854775808", string(AppendInt(nil, math.MinInt64)))
}

func TestAppendCenti(t *testing.T) {
	for in, want := range map[int64]string{
		0:     "0.0",
		4:     "0.0",
		5:     "0.1",
		2050:  "20.5",
		2249:  "22.5",
		2244:  "22.4",
		9999:  "100.0",
		-4:    "0.0",
		-5:    "-0.1",
		-53:   "-0.5",
		-1234: "-12.3",
	} {
		assert.Equal(t, want, string(AppendCenti(nil, in)), "AppendCenti(%d)", in)
	}
}
