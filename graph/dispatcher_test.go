package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventDispatcherFiresAtTriggerTime(t *testing.T) {
	d := NewEventDispatcher(Silence{})
	fired := false
	d.ScheduleEvent(1.0, func() { fired = true })
	d.AdvanceTime(0.5)
	assert.False(t, fired)
	d.AdvanceTime(0.5)
	assert.True(t, fired)
}

func TestEventDispatcherFiresInOrderOnTies(t *testing.T) {
	d := NewEventDispatcher(Silence{})
	var order []int
	d.ScheduleEvent(1.0, func() { order = append(order, 1) })
	d.ScheduleEvent(1.0, func() { order = append(order, 2) })
	d.ScheduleEvent(1.0, func() { order = append(order, 3) })
	d.AdvanceTime(1.0)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestEventDispatcherRescheduleFromWithinEvent(t *testing.T) {
	d := NewEventDispatcher(Silence{})
	count := 0
	var schedule func()
	schedule = func() {
		count++
		if count < 3 {
			d.ScheduleEvent(0, schedule)
		}
	}
	d.ScheduleEvent(0, schedule)
	d.AdvanceTime(0)
	assert.Equal(t, 3, count)
}

func TestEventDispatcherNegativeDeltaPanics(t *testing.T) {
	d := NewEventDispatcher(Silence{})
	assert.Panics(t, func() {
		d.ScheduleEvent(-1, func() {})
	})
}

func TestEventDispatcherNotDuplicable(t *testing.T) {
	d := NewEventDispatcher(Silence{})
	_, err := d.Duplicate()
	assert.ErrorIs(t, err, ErrNotDuplicable)
}
