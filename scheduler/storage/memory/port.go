// Package memory provides an in-memory storage.Port, useful for tests and
// examples.
package memory

import (
	"github.com/marivant/libschedule/scheduler/storage"
)

// Port implements storage.Port with a plain map.
type Port struct {
	blobs map[string][]byte
}

var _ storage.Port = (*Port)(nil)

// New creates an empty in-memory port.
func New() *Port {
	return &Port{blobs: make(map[string][]byte)}
}

func (p *Port) Load(key string) ([]byte, error) {
	data, ok := p.blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (p *Port) Save(key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)
	p.blobs[key] = stored
	return nil
}
