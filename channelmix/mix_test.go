package channelmix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMixChannelsIdentityPassesThrough(t *testing.T) {
	in := []float32{1, 2, 3}
	out := MixChannels(3, in)
	assert.Equal(t, in, out)
}

func TestMixChannelsMonoFromStereoIsAverage(t *testing.T) {
	out := MixChannels(1, []float32{2, 4})
	assert.InDelta(t, 3, out[0], 1e-6)
}

func TestMixChannelsStereoFromMonoDuplicates(t *testing.T) {
	out := MixChannels(2, []float32{5})
	assert.Equal(t, []float32{5, 5}, out)
}

func TestMixChannelsFallsBackToAverageBeyondSix(t *testing.T) {
	in := make([]float32, 8)
	for i := range in {
		in[i] = float32(i + 1)
	}
	out := MixChannels(3, in)
	for _, v := range out {
		assert.InDelta(t, 4.5, v, 1e-6)
	}
}

func TestMixChannelsPanicsOnNonPositiveCount(t *testing.T) {
	assert.Panics(t, func() {
		MixChannels(0, []float32{1})
	})
}

func TestMixChannelsSurroundPassesLFEIntoFrontPair(t *testing.T) {
	// outChannels=2, sourceChannels=6: front pair should include the
	// LFE channel (c6) added directly, per the original downmix table.
	in := []float32{1, 0, 0, 0, 0, 1}
	out := MixChannels(2, in)
	assert.InDelta(t, float32(2)/5+1, out[0], 1e-6)
}

func TestMixChannelsIntoMatchesAllocatingVariant(t *testing.T) {
	in := []float32{1, 2, 3, 4}
	want := MixChannels(2, in)
	dst := make([]float32, 2)
	MixChannelsInto(dst, in)
	assert.Equal(t, want, dst)
}

func TestMixChannelsIntoPanicsOnNonPositiveCount(t *testing.T) {
	assert.Panics(t, func() {
		MixChannelsInto(nil, []float32{1})
	})
}
