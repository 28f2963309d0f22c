package graph

// mixEntry is a (child, gain) pair inserted into a Mix. Its address is
// the stable handle returned by Insert: Go has no persistent list
// iterator, so a pointer into a slice of pointers plays the same role.
type mixEntry struct {
	child Source
	gain  float32
}

// MixHandle identifies a child previously inserted into a Mix, for
// later removal without a linear search by value.
type MixHandle struct {
	entry *mixEntry
}

// Valid reports whether the handle refers to an entry (false for the
// zero MixHandle returned when Insert was given a nil child).
func (h MixHandle) Valid() bool { return h.entry != nil }

// Mix sums gain_i * child_i.CurrentSample(ch) over its children. An
// empty Mix reads as silence on every channel.
type Mix struct {
	items []*mixEntry
}

// NewMix returns an empty mixer.
func NewMix() *Mix { return &Mix{} }

// Insert adds child to the mix at the given gain and returns a handle
// for later removal. Inserting a nil child is a no-op and returns the
// zero (invalid) handle.
func (m *Mix) Insert(child Source, gain float32) MixHandle {
	if child == nil {
		return MixHandle{}
	}
	e := &mixEntry{child: child, gain: gain}
	m.items = append(m.items, e)
	return MixHandle{entry: e}
}

// EraseHandle removes the entry identified by h, if still present.
func (m *Mix) EraseHandle(h MixHandle) bool {
	if !h.Valid() {
		return false
	}
	for i, e := range m.items {
		if e == h.entry {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

// EraseChild removes the first entry whose child equals source.
func (m *Mix) EraseChild(source Source) bool {
	for i, e := range m.items {
		if e.child == source {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of children currently mixed.
func (m *Mix) Len() int { return len(m.items) }

func (m *Mix) CurrentSample(channel int) float32 {
	var retval float32
	for _, e := range m.items {
		retval += e.gain * e.child.CurrentSample(channel)
	}
	return retval
}

func (m *Mix) AdvanceTime(dt float64) {
	for _, e := range m.items {
		e.child.AdvanceTime(dt)
	}
}

func (m *Mix) Duplicate() (Source, error) {
	retval := NewMix()
	for _, e := range m.items {
		childCopy, err := e.child.Duplicate()
		if err != nil {
			return nil, err
		}
		retval.Insert(childCopy, e.gain)
	}
	return retval, nil
}

// modEntry is a single child of a Modulate node.
type modEntry struct {
	child Source
}

// ModulateHandle identifies a child previously inserted into a Modulate.
type ModulateHandle struct {
	entry *modEntry
}

// Valid reports whether the handle refers to an entry.
func (h ModulateHandle) Valid() bool { return h.entry != nil }

// Modulate multiplies the CurrentSample of all its children together.
// An empty Modulate reads as 1 on every channel (the multiplicative
// identity), so it composes transparently when nothing is plugged in.
type Modulate struct {
	items []*modEntry
}

// NewModulate returns an empty modulator.
func NewModulate() *Modulate { return &Modulate{} }

// Insert adds child to the modulator and returns a handle for removal.
func (m *Modulate) Insert(child Source) ModulateHandle {
	if child == nil {
		return ModulateHandle{}
	}
	e := &modEntry{child: child}
	m.items = append(m.items, e)
	return ModulateHandle{entry: e}
}

// EraseHandle removes the entry identified by h, if still present.
func (m *Modulate) EraseHandle(h ModulateHandle) bool {
	if !h.Valid() {
		return false
	}
	for i, e := range m.items {
		if e == h.entry {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

// EraseChild removes the first entry whose child equals source.
func (m *Modulate) EraseChild(source Source) bool {
	for i, e := range m.items {
		if e.child == source {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Modulate) CurrentSample(channel int) float32 {
	retval := float32(1)
	for _, e := range m.items {
		retval *= e.child.CurrentSample(channel)
	}
	return retval
}

func (m *Modulate) AdvanceTime(dt float64) {
	for _, e := range m.items {
		e.child.AdvanceTime(dt)
	}
}

func (m *Modulate) Duplicate() (Source, error) {
	retval := NewModulate()
	for _, e := range m.items {
		childCopy, err := e.child.Duplicate()
		if err != nil {
			return nil, err
		}
		retval.Insert(childCopy)
	}
	return retval, nil
}

// Pan scales a child's samples per output channel. Channels outside
// the gain array pass through the child's sample unmodified.
type Pan struct {
	child        Source
	channelGains [NOut]float32
}

// NewPan wraps child with the given per-channel gains.
func NewPan(child Source, channelGains [NOut]float32) *Pan {
	return &Pan{child: child, channelGains: channelGains}
}

func (p *Pan) CurrentSample(channel int) float32 {
	if channel < 0 || channel >= len(p.channelGains) {
		return p.child.CurrentSample(channel)
	}
	return p.channelGains[channel] * p.child.CurrentSample(channel)
}

func (p *Pan) AdvanceTime(dt float64) {
	p.child.AdvanceTime(dt)
}

func (p *Pan) Duplicate() (Source, error) {
	childCopy, err := p.child.Duplicate()
	if err != nil {
		return nil, err
	}
	return NewPan(childCopy, p.channelGains), nil
}
