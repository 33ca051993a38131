package ocean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoundVelocity_CheckValue(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 1731.995, SoundVelocity(40, 40, 10000), 1e-3)
}

func TestSoundVelocity_Surface(t *testing.T) {
	t.Parallel()
	// Fresh water at 0 deg C and zero pressure reduces to the C0 constant.
	assert.InDelta(t, 1402.388, SoundVelocity(0, 0, 0), 1e-9)

	warm := SoundVelocity(35, 20, 0)
	cold := SoundVelocity(35, 5, 0)
	assert.Greater(t, warm, cold)
	assert.InDelta(t, 1521.5, warm, 1)
}

func TestPressure(t *testing.T) {
	t.Parallel()
	kpa := DepthToPressure(100, SeawaterDensity, Gravity)
	assert.InDelta(t, 1005.18, kpa, 1e-2)
	assert.InDelta(t, 100.518, KPaToDecibars(kpa), 1e-3)
}

func TestProfile(t *testing.T) {
	t.Parallel()
	v, err := Profile(35, []float64{0, 1000}, []float64{10, 10})
	require.NoError(t, err)
	require.Len(t, v, 2)
	assert.Greater(t, v[1], v[0], "pressure raises sound speed")

	_, err = Profile(35, []float64{0}, nil)
	assert.Error(t, err)
}
