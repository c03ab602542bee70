// Package diskv provides a file-backed storage.Port built on
// peterbourgon/diskv. Each storage key is kept as one file under the base
// path, which makes the persisted blobs easy to inspect and back up.
package diskv

import (
	"fmt"

	"github.com/peterbourgon/diskv/v3"

	"github.com/marivant/libschedule/scheduler/storage"
)

// Port implements storage.Port over a diskv store.
type Port struct {
	d *diskv.Diskv
}

var _ storage.Port = (*Port)(nil)

// New creates a port writing under basePath. The directory is created on
// first write.
func New(basePath string) *Port {
	return &Port{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (p *Port) Load(key string) ([]byte, error) {
	if !p.d.Has(key) {
		return nil, nil
	}
	data, err := p.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (p *Port) Save(key string, data []byte) error {
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
