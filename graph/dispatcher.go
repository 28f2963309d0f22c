package graph

import "container/heap"

// Event is a callable scheduled to run once a child source's simulated
// clock reaches a trigger time.
type Event func()

type eventEntry struct {
	triggerTime float64
	seq         uint64
	fn          Event
}

// eventQueue is a container/heap.Interface ordered by (triggerTime, seq)
// so that events scheduled for the same instant fire in insertion order.
type eventQueue []*eventEntry

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].triggerTime != q[j].triggerTime {
		return q[i].triggerTime < q[j].triggerTime
	}
	return q[i].seq < q[j].seq
}
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)   { *q = append(*q, x.(*eventEntry)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// EventDispatcher wraps a child source and fires scheduled Events as
// its simulated clock advances. It is not duplicable: the pending
// event queue has no meaningful copy semantics, matching SilenceMidiKey
// and GenericMidiKey.
type EventDispatcher struct {
	child   Source
	now     float64
	nextSeq uint64
	queue   eventQueue
}

// NewEventDispatcher wraps child with an empty event queue.
func NewEventDispatcher(child Source) *EventDispatcher {
	return &EventDispatcher{child: child}
}

// ScheduleEvent arranges for fn to run once deltaTime (relative to the
// dispatcher's current simulated time) of child time has elapsed.
// ScheduleEvent panics if deltaTime is negative.
func (d *EventDispatcher) ScheduleEvent(deltaTime float64, fn Event) {
	if deltaTime < 0 {
		panic("graph: negative event deltaTime")
	}
	e := &eventEntry{triggerTime: d.now + deltaTime, seq: d.nextSeq, fn: fn}
	d.nextSeq++
	heap.Push(&d.queue, e)
}

func (d *EventDispatcher) CurrentSample(channel int) float32 {
	if d.child == nil {
		return 0
	}
	return d.child.CurrentSample(channel)
}

// AdvanceTime advances the child's clock by dt, firing every pending
// event whose trigger time falls at or before the new simulated time,
// in (triggerTime, insertion-order) order, before returning. A fired
// event may itself schedule further events, which are eligible to fire
// within the same AdvanceTime call if their trigger time still falls
// within dt.
func (d *EventDispatcher) AdvanceTime(dt float64) {
	target := d.now + dt
	for d.queue.Len() > 0 && d.queue[0].triggerTime <= target {
		e := heap.Pop(&d.queue).(*eventEntry)
		step := e.triggerTime - d.now
		if d.child != nil && step != 0 {
			d.child.AdvanceTime(step)
		}
		d.now = e.triggerTime
		e.fn()
	}
	if d.now < target {
		if d.child != nil {
			d.child.AdvanceTime(target - d.now)
		}
		d.now = target
	}
}

// Duplicate always fails: pending events close over state that cannot
// be meaningfully copied.
func (d *EventDispatcher) Duplicate() (Source, error) {
	return nil, ErrNotDuplicable
}

// Pending returns the number of events still waiting to fire.
func (d *EventDispatcher) Pending() int { return d.queue.Len() }
