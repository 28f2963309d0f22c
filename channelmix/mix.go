// Package channelmix converts a frame of audio between channel counts
// using a fixed set of per-layout downmix/upmix formulas (1 through 6
// channels), falling back to an equal-weight average for any channel
// count this package doesn't special-case.
package channelmix

// MixChannels converts one frame of in (sourceChannels samples,
// sourceChannels == len(in)) to a frame of outChannels samples. Both
// counts must be positive; MixChannels panics otherwise. It allocates
// the result slice; callers on a hot path (one call per audio sample)
// should use MixChannelsInto with a reusable buffer instead.
func MixChannels(outChannels int, in []float32) []float32 {
	out := make([]float32, outChannels)
	MixChannelsInto(out, in)
	return out
}

// MixChannelsInto converts in into dst, with len(dst) selecting the
// output channel count and len(in) the source channel count. Both
// must be positive; MixChannelsInto panics otherwise. It performs no
// allocation, making it suitable for a per-sample audio hot path.
func MixChannelsInto(dst, in []float32) {
	outChannels := len(dst)
	sourceChannels := len(in)
	if outChannels <= 0 || sourceChannels <= 0 {
		panic("channelmix: channel counts must be positive")
	}
	if outChannels == sourceChannels {
		copy(dst, in)
		return
	}
	if sourceChannels < 1 || sourceChannels > 6 || outChannels < 1 || outChannels > 6 {
		average(dst, in)
		return
	}
	fn := table[outChannels-1][sourceChannels-1]
	if fn == nil {
		average(dst, in)
		return
	}
	fn(dst, in)
}

func average(dst, in []float32) {
	var sum float32
	for _, v := range in {
		sum += v
	}
	avg := sum / float32(len(in))
	for i := range dst {
		dst[i] = avg
	}
}

type mixFunc func(dst, in []float32)

// table[outChannels-1][sourceChannels-1] holds the formula for that
// (out, source) pair; nil means "fall back to average" (the source
// only special-cases up to 6 channels either way, matching the
// original default branches it otherwise hit unconditionally).
var table = [6][6]mixFunc{
	// out = 1
	{nil, mono2, mono3, mono4, mono5, mono6},
	// out = 2
	{stereo1, nil, stereo3, stereo4, stereo5, stereo6},
	// out = 3
	{tri1, tri2, nil, tri4, tri5, tri6},
	// out = 4
	{quad1, quad2, quad3, nil, quad5, quad6},
	// out = 5
	{five1, five2, five3, five4, nil, five6},
	// out = 6
	{six1, six2, six3, six4, six5, nil},
}

func mono2(dst, in []float32) { average(dst, in) }
func mono3(dst, in []float32) { average(dst, in) }
func mono4(dst, in []float32) { average(dst, in) }
func mono5(dst, in []float32) { average(dst, in) }
func mono6(dst, in []float32) { average(dst, in) }

func stereo1(dst, in []float32) {
	c := in[0]
	dst[0], dst[1] = c, c
}

func stereo3(dst, in []float32) {
	c1, c2, c3 := in[0], in[1], in[2]
	dst[0] = (2*c1 + c2) / 3
	dst[1] = (c2 + 2*c3) / 3
}

func stereo4(dst, in []float32) {
	c1, c2, c3, c4 := in[0], in[1], in[2], in[3]
	dst[0] = (c1 + c3) / 2
	dst[1] = (c2 + c4) / 2
}

func stereo5(dst, in []float32) {
	c1, c2, c3, c4, c5 := in[0], in[1], in[2], in[3], in[4]
	dst[0] = (2*c1 + c2 + 2*c4) / 5
	dst[1] = (2*c3 + c2 + 2*c5) / 5
}

func stereo6(dst, in []float32) {
	c1, c2, c3, c4, c5, c6 := in[0], in[1], in[2], in[3], in[4], in[5]
	dst[0] = (2*c1+c2+2*c4)/5 + c6
	dst[1] = (2*c3+c2+2*c5)/5 + c6
}

func tri1(dst, in []float32) {
	c := in[0]
	dst[0], dst[1], dst[2] = c, c, c
}

func tri2(dst, in []float32) {
	c1, c2 := in[0], in[1]
	dst[0] = (5*c1 - c2) / 4
	dst[1] = (c1 + c2) / 2
	dst[2] = (5*c2 - c1) / 4
}

func tri4(dst, in []float32) {
	c1, c2, c3, c4 := in[0], in[1], in[2], in[3]
	dst[0] = (5*(c1+c3) - c2 - c4) / 8
	dst[1] = (c1 + c2 + c3 + c4) / 4
	dst[2] = (5*(c2+c4) - c1 - c3) / 8
}

func tri5(dst, in []float32) {
	c1, c2, c3, c4, c5 := in[0], in[1], in[2], in[3], in[4]
	dst[0] = (c1 + c4) / 2
	dst[1] = c2
	dst[2] = (c3 + c5) / 2
}

func tri6(dst, in []float32) {
	c1, c2, c3, c4, c5, c6 := in[0], in[1], in[2], in[3], in[4], in[5]
	dst[0] = (c1+c4)/2 + c6
	dst[1] = c2 + c6
	dst[2] = (c3+c5)/2 + c6
}

func quad1(dst, in []float32) {
	c := in[0]
	dst[0], dst[1], dst[2], dst[3] = c, c, c, c
}

func quad2(dst, in []float32) {
	c1, c2 := in[0], in[1]
	dst[0], dst[1], dst[2], dst[3] = c1, c2, c1, c2
}

func quad3(dst, in []float32) {
	c1, c2, c3 := in[0], in[1], in[2]
	dst[0] = (2*c1 + c2) / 3
	dst[1] = (c2 + 2*c3) / 3
	dst[2] = (2*c1 + c2) / 3
	dst[3] = (c2 + 2*c3) / 3
}

func quad5(dst, in []float32) {
	c1, c2, c3, c4, c5 := in[0], in[1], in[2], in[3], in[4]
	dst[0] = (2*c1 + c2) / 3
	dst[1] = (2*c3 + c2) / 3
	dst[2] = c4
	dst[3] = c5
}

func quad6(dst, in []float32) {
	c1, c2, c3, c4, c5, c6 := in[0], in[1], in[2], in[3], in[4], in[5]
	dst[0] = (2*c1+c2)/3 + c6
	dst[1] = (2*c3+c2)/3 + c6
	dst[2] = c4 + c6
	dst[3] = c5 + c6
}

func five1(dst, in []float32) {
	c := in[0]
	dst[0], dst[1], dst[2], dst[3], dst[4] = c, c, c, c, c
}

func five2(dst, in []float32) {
	c1, c2 := in[0], in[1]
	dst[0] = (5*c1 - c2) / 4
	dst[1] = (c1 + c2) / 2
	dst[2] = (5*c2 - c1) / 4
	dst[3] = (5*c1 - c2) / 4
	dst[4] = (5*c2 - c1) / 4
}

func five3(dst, in []float32) {
	c1, c2, c3 := in[0], in[1], in[2]
	dst[0], dst[1], dst[2], dst[3], dst[4] = c1, c2, c3, c1, c3
}

func five4(dst, in []float32) {
	c1, c2, c3, c4 := in[0], in[1], in[2], in[3]
	dst[0] = (5*c1 - c2) / 4
	dst[1] = (c1 + c2 + c3 + c4) / 4
	dst[2] = (5*c2 - c1) / 4
	dst[3] = (5*c1 - c2) / 4
	dst[4] = (5*c2 - c1) / 4
}

func five6(dst, in []float32) {
	c1, c2, c3, c4, c5, c6 := in[0], in[1], in[2], in[3], in[4], in[5]
	dst[0] = c1 + c6
	dst[1] = c2 + c6
	dst[2] = c3 + c6
	dst[3] = c4 + c6
	dst[4] = c5 + c6
}

func six1(dst, in []float32) {
	c := in[0]
	dst[0], dst[1], dst[2], dst[3], dst[4], dst[5] = c, c, c, c, c, c
}

func six2(dst, in []float32) {
	c1, c2 := in[0], in[1]
	dst[0] = (5*c1 - c2) / 4
	dst[1] = (c1 + c2) / 2
	dst[2] = (5*c2 - c1) / 4
	dst[3] = (5*c1 - c2) / 4
	dst[4] = (5*c2 - c1) / 4
	dst[5] = (c1 + c2) / 2
}

func six3(dst, in []float32) {
	c1, c2, c3 := in[0], in[1], in[2]
	dst[0], dst[1], dst[2], dst[3], dst[4] = c1, c2, c3, c1, c3
	dst[5] = (c1 + c2 + c3) / 3
}

func six4(dst, in []float32) {
	c1, c2, c3, c4 := in[0], in[1], in[2], in[3]
	dst[0] = (5*c1 - c2) / 4
	dst[1] = (c1 + c2 + c3 + c4) / 4
	dst[2] = (5*c2 - c1) / 4
	dst[3] = (5*c1 - c2) / 4
	dst[4] = (5*c2 - c1) / 4
	dst[5] = (c1 + c2 + c3 + c4) / 4
}

func six5(dst, in []float32) {
	c1, c2, c3, c4, c5 := in[0], in[1], in[2], in[3], in[4]
	dst[0], dst[1], dst[2], dst[3], dst[4] = c1, c2, c3, c4, c5
	dst[5] = (c1 + c2 + c3 + c4 + c5) / 5
}
