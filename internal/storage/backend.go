package storage

import (
	"os"
	"time"

	"dailyflow/internal/fsutil"
)

// DataFile is the document's file name inside the data directory.
const DataFile = "habits.json"

// Backend persists the serialized document. Read returns an error
// matching fs.ErrNotExist when nothing has been saved yet.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Location() string
}

// quarantiner is implemented by backends that can move an unreadable
// copy out of the way before it gets overwritten.
type quarantiner interface {
	Quarantine(now time.Time) string
}

// FileBackend stores the document as a JSON file.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Read() ([]byte, error) {
	return os.ReadFile(b.path)
}

// Write keeps a best-effort .bak of the previous contents, then replaces
// the file atomically.
func (b *FileBackend) Write(data []byte) error {
	fsutil.BestEffortBackup(b.path, fsutil.FilePerm)
	return fsutil.WriteFileAtomic(b.path, data, fsutil.FilePerm)
}

func (b *FileBackend) Location() string {
	return b.path
}

func (b *FileBackend) Quarantine(now time.Time) string {
	return fsutil.MoveAside(b.path, now)
}
