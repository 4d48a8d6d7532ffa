package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Capture collects JSON entries written through a Logger so callers can
// assert on the emitted references.
type Capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCapture returns a debug-level Logger writing into a Capture.
func NewCapture() (*Logger, *Capture) {
	c := &Capture{}
	return New(zerolog.New(c).Level(zerolog.DebugLevel)), c
}

func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// Entries decodes every captured line.
func (c *Capture) Entries() []map[string]interface{} {
	c.mu.Lock()
	data := append([]byte(nil), c.buf.Bytes()...)
	c.mu.Unlock()

	var entries []map[string]interface{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var e map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

// References lists the reference codes in the order they were logged.
func (c *Capture) References() []string {
	var refs []string
	for _, e := range c.Entries() {
		if r, ok := e["reference"].(string); ok {
			refs = append(refs, r)
		}
	}
	return refs
}

// Count returns how many entries carry the given reference.
func (c *Capture) Count(ref Reference) int {
	n := 0
	for _, r := range c.References() {
		if r == ref.Code {
			n++
		}
	}
	return n
}
