// backend/src/services/ledger_file.go
package services

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// LedgerFile is one agent ledger export handed to the service. The name is the
// original file name and is used to derive the agent name.
type LedgerFile interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type diskFile struct {
	path string
}

// DiskFile is a LedgerFile backed by a path on the local file system.
func DiskFile(path string) LedgerFile {
	return diskFile{path: path}
}

func (f diskFile) Name() string { return filepath.Base(f.path) }

func (f diskFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

type memoryFile struct {
	name string
	data []byte
}

// MemoryFile is a LedgerFile over bytes already held in memory.
func MemoryFile(name string, data []byte) LedgerFile {
	return memoryFile{name: name, data: data}
}

func (f memoryFile) Name() string { return f.name }

func (f memoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
