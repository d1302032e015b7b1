package lcd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBusyWait(t *testing.T) {
	start := time.Now()
	BusyWait.Delay(300 * time.Microsecond)
	assert.GreaterOrEqual(t, int64(time.Since(start)), int64(300*time.Microsecond))

	start = time.Now()
	BusyWait.Delay(-time.Second)
	assert.Less(t, int64(time.Since(start)), int64(time.Second))
}

func TestDelayFunc(t *testing.T) {
	var got time.Duration
	DelayFunc(func(d time.Duration) { got = d }).Delay(42 * time.Microsecond)
	assert.Equal(t, 42*time.Microsecond, got)
}

func TestDelayerByName(t *testing.T) {
	for _, name := range []string{"", "busywait", "sleep"} {
		d, ok := DelayerByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, d, name)
	}
	_, ok := DelayerByName("nap")
	assert.False(t, ok)
}
