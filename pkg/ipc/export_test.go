package ipc

// WithMaxFrameBytes lowers the inbound frame cap so tests can exercise it
// without multi-megabyte payloads.
func (c *Correlator) WithMaxFrameBytes(n int) *Correlator {
	c.maxFrame = n
	return c
}
