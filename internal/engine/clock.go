package engine

// virtualClock is advanced by the frame loop, runs are independent of the
// wall clock.
type virtualClock struct {
	ticks uint32
}

func (c *virtualClock) Ticks() uint32 {
	return c.ticks
}

func (c *virtualClock) advance(ms uint32) {
	c.ticks += ms
}
