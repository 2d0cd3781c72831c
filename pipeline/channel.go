package pipeline

// Channel is a buffered message channel between pipeline stages.
type Channel struct {
	out chan Message
}

// NewChannel returns a Channel with the given buffer capacity.
func NewChannel(capacity int) *Channel {
	return &Channel{out: make(chan Message, capacity)}
}

// Send enqueues a message, blocking if the channel is full.
func (c *Channel) Send(msg Message) {
	c.out <- msg
}

// Recv dequeues a message, blocking until one is available or the channel
// is closed.
func (c *Channel) Recv() (Message, bool) {
	msg, ok := <-c.out
	return msg, ok
}

// Close closes the channel; Send must not be called afterwards.
func (c *Channel) Close() {
	close(c.out)
}
