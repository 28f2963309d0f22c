package graph

import "math"

// RampMode selects the interpolation shape a TimeScale or Amplify node
// uses while moving its controlled value toward a target.
type RampMode int

const (
	// Linear ramps the value at a constant rate.
	Linear RampMode = iota
	// Exponential ramps the value's logarithm at a constant rate.
	Exponential
)

func trapArea(base, side1, side2 float64) float64 {
	return base * 0.5 * (side1 + side2)
}

func rectArea(base, side float64) float64 {
	return base * side
}

func expTrapArea(base, side1, side2 float64) float64 {
	if side1 == side2 {
		return rectArea(base, side1)
	}
	return base * (side1 - side2) / (math.Log(side1) - math.Log(side2))
}

// TimeScale stretches or compresses the simulated time delivered to a
// child source, ramping the scale factor linearly or exponentially
// toward a target.
type TimeScale struct {
	child         Source
	scale, target float64
	speed         float64
	mode          RampMode
}

// NewTimeScale wraps child with a time scaler initially at rest at scale.
func NewTimeScale(child Source, scale float64) *TimeScale {
	return &TimeScale{child: child, scale: scale, target: scale, speed: 1, mode: Linear}
}

// SetScale begins ramping toward target at the given speed and mode.
func (t *TimeScale) SetScale(target, speed float64, mode RampMode) {
	t.target, t.speed, t.mode = target, speed, mode
}

// Scale returns the current (possibly mid-ramp) scale factor.
func (t *TimeScale) Scale() float64 { return t.scale }

// StabilizeTime returns how much simulated time must still elapse
// before the scale reaches its target: 0 if already there, +Inf if
// speed is 0 and a target remains unreached.
func (t *TimeScale) StabilizeTime() float64 {
	if t.target == t.scale {
		return 0
	}
	if t.speed == 0 {
		return math.Inf(1)
	}
	switch t.mode {
	case Linear:
		return math.Abs(t.target-t.scale) / t.speed
	default:
		return math.Abs(math.Log(t.target)-math.Log(t.scale)) / t.speed
	}
}

func (t *TimeScale) AdvanceTime(dt float64) {
	deltaScale := t.target - t.scale
	if deltaScale == 0 || t.speed == 0 {
		t.child.AdvanceTime(dt * t.scale)
		return
	}
	newDeltaTime := dt * t.scale
	switch t.mode {
	case Linear:
		stabilizeTime := math.Abs(deltaScale) / t.speed
		if dt >= stabilizeTime {
			newDeltaTime = trapArea(stabilizeTime, t.scale, t.target) + rectArea(dt-stabilizeTime, t.target)
			t.scale = t.target
		} else {
			scale2 := t.scale + sgn(deltaScale)*t.speed*dt
			newDeltaTime = trapArea(dt, t.scale, scale2)
			t.scale = scale2
		}
	case Exponential:
		deltaScale = math.Log(t.target) - math.Log(t.scale)
		stabilizeTime := math.Abs(deltaScale) / t.speed
		if dt >= stabilizeTime {
			newDeltaTime = expTrapArea(stabilizeTime, t.scale, t.target) + rectArea(dt-stabilizeTime, t.target)
			t.scale = t.target
		} else {
			scale2 := math.Exp(math.Log(t.scale) + sgn(deltaScale)*t.speed*dt)
			newDeltaTime = expTrapArea(dt, t.scale, scale2)
			t.scale = scale2
		}
	}
	t.child.AdvanceTime(newDeltaTime)
}

func (t *TimeScale) CurrentSample(channel int) float32 {
	return t.child.CurrentSample(channel)
}

func (t *TimeScale) Duplicate() (Source, error) {
	childCopy, err := t.child.Duplicate()
	if err != nil {
		return nil, err
	}
	retval := NewTimeScale(childCopy, t.scale)
	retval.SetScale(t.target, t.speed, t.mode)
	return retval, nil
}

// softLogTransition is the amplitude below which Amplify's exponential
// ramp switches from true log to a linear extension, so gain can ramp
// through zero without a singularity.
const softLogTransition = 1e-5

func modifiedLog(v float64) float64 {
	if v < softLogTransition {
		return math.Log(softLogTransition) - 1 + v/softLogTransition
	}
	return math.Log(v)
}

func modifiedExp(v float64) float64 {
	if v < math.Log(softLogTransition) {
		return (v - (math.Log(softLogTransition) - 1)) * softLogTransition
	}
	return math.Exp(v)
}

// Amplify multiplies a child source's samples by a gain that ramps
// linearly or (via a soft log) exponentially toward a target.
type Amplify struct {
	child       Source
	amp, target float64
	speed       float64
	mode        RampMode
}

// NewAmplify wraps child with a gain control initially at rest at amp.
func NewAmplify(child Source, amp float64) *Amplify {
	return &Amplify{child: child, amp: amp, target: amp, speed: 1, mode: Linear}
}

// SetAmplitude begins ramping the gain toward target at the given speed and mode.
func (a *Amplify) SetAmplitude(target, speed float64, mode RampMode) {
	a.target, a.speed, a.mode = target, speed, mode
}

// Amplitude returns the current (possibly mid-ramp) gain.
func (a *Amplify) Amplitude() float64 { return a.amp }

// StabilizeTime returns how much simulated time must still elapse
// before the gain reaches its target.
func (a *Amplify) StabilizeTime() float64 {
	if a.target == a.amp {
		return 0
	}
	if a.speed == 0 {
		return math.Inf(1)
	}
	switch a.mode {
	case Linear:
		return math.Abs(a.target-a.amp) / a.speed
	default:
		return math.Abs(modifiedLog(a.target)-modifiedLog(a.amp)) / a.speed
	}
}

func (a *Amplify) AdvanceTime(dt float64) {
	a.child.AdvanceTime(dt)
	deltaAmp := a.target - a.amp
	if deltaAmp == 0 || a.speed == 0 {
		return
	}
	switch a.mode {
	case Linear:
		stabilizeTime := math.Abs(deltaAmp) / a.speed
		if dt >= stabilizeTime {
			a.amp = a.target
		} else {
			a.amp += sgn(deltaAmp) * a.speed * dt
		}
	case Exponential:
		deltaAmp = modifiedLog(a.target) - modifiedLog(a.amp)
		stabilizeTime := math.Abs(deltaAmp) / a.speed
		if dt >= stabilizeTime {
			a.amp = a.target
		} else {
			a.amp = modifiedExp(modifiedLog(a.amp) + sgn(deltaAmp)*a.speed*dt)
		}
	}
}

func (a *Amplify) CurrentSample(channel int) float32 {
	return float32(a.amp) * a.child.CurrentSample(channel)
}

func (a *Amplify) Duplicate() (Source, error) {
	childCopy, err := a.child.Duplicate()
	if err != nil {
		return nil, err
	}
	retval := NewAmplify(childCopy, a.amp)
	retval.SetAmplitude(a.target, a.speed, a.mode)
	return retval, nil
}
