package app

// checkpoints replays cursor positions the way a browser history stack
// replays pushed states: pushing after stepping back drops the forward tail.
type checkpoints struct {
	stack []int
	pos   int
}

func newCheckpoints() checkpoints {
	return checkpoints{pos: -1}
}

func (c *checkpoints) push(index int) {
	if c.pos >= 0 && c.stack[c.pos] == index {
		return
	}
	c.stack = append(c.stack[:c.pos+1], index)
	c.pos = len(c.stack) - 1
}

func (c *checkpoints) back() (int, bool) {
	if c.pos <= 0 {
		return 0, false
	}
	c.pos--
	return c.stack[c.pos], true
}

func (c *checkpoints) forward() (int, bool) {
	if c.pos+1 >= len(c.stack) {
		return 0, false
	}
	c.pos++
	return c.stack[c.pos], true
}

func (c *checkpoints) reset() {
	c.stack = c.stack[:0]
	c.pos = -1
}
