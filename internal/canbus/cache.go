package canbus

import (
	"sync"

	"github.com/brutella/can"
)

// Cache keeps the most recent payload per arbitration ID. Some Daly units
// broadcast their status frames continuously, so a consumer can read the
// latest snapshot without issuing a request.
type Cache struct {
	mux    sync.RWMutex
	frames map[uint32][]byte
}

func NewCache(bus Bus) *Cache {
	c := &Cache{frames: make(map[uint32][]byte)}
	bus.Subscribe(c)
	return c
}

func (c *Cache) Handle(frame can.Frame) {
	length := frame.Length
	if length > 8 {
		length = 8
	}
	payload := make([]byte, length)
	copy(payload, frame.Data[:length])
	c.mux.Lock()
	c.frames[frame.ID&frameMaskExtended] = payload
	c.mux.Unlock()
}

// Frames returns a copy of the cached payloads keyed by arbitration ID.
func (c *Cache) Frames() map[uint32][]byte {
	c.mux.RLock()
	defer c.mux.RUnlock()
	frames := make(map[uint32][]byte, len(c.frames))
	for id, payload := range c.frames {
		frames[id] = payload
	}
	return frames
}

func (c *Cache) Latest(id uint32) ([]byte, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	payload, ok := c.frames[id]
	return payload, ok
}
