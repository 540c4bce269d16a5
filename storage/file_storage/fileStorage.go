package file_storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/juju/fslock"

	"github.com/docstacker/docsign/storage"
)

var _ storage.Storage = (*FileStorage)(nil)

const (
	defaultLockFile = "/tmp/docsign_audit_lock"

	// audit lines carry only digests, but allow long field payloads
	maxLineSize = 4 << 20
)

// FileStorage is an append-only JSON lines audit log. The lock file makes
// appends safe across processes sharing the same data file.
type FileStorage struct {
	mu       sync.Mutex
	lockFile *fslock.Lock
	dataFile *os.File
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return scanner
}

func countLines(r io.Reader) (uint64, error) {
	var count uint64
	scanner := newScanner(r)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

// NewFileStorage opens (or creates) the data file. lockFilename is optional.
func NewFileStorage(filename string, lockFilename ...string) (*FileStorage, error) {
	var (
		fs  FileStorage
		err error
	)
	if len(lockFilename) > 0 && lockFilename[0] != "" {
		fs.lockFile = fslock.New(lockFilename[0])
	} else {
		fs.lockFile = fslock.New(defaultLockFile)
	}

	if fs.dataFile, err = os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644); err != nil {
		return nil, fmt.Errorf("failed to open a data file: %w", err)
	}
	return &fs, nil
}

func (fs *FileStorage) send(m storage.Message) (storage.Message, error) {
	var (
		data []byte
		err  error
	)
	if err = fs.lockFile.Lock(); err != nil {
		return m, fmt.Errorf("failed to lock a file: %w", err)
	}
	defer fs.lockFile.Unlock()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	if _, err = fs.dataFile.Seek(0, io.SeekStart); err != nil {
		return m, fmt.Errorf("failed to seek to the start of a data file: %w", err)
	}
	if m.Offset, err = countLines(fs.dataFile); err != nil {
		return m, fmt.Errorf("failed to count messages: %w", err)
	}

	if data, err = json.Marshal(m); err != nil {
		return m, fmt.Errorf("failed to marshal a message %s: %w", m.ID, err)
	}

	if _, err = fmt.Fprintln(fs.dataFile, string(data)); err != nil {
		return m, fmt.Errorf("failed to write a message to a data file: %w", err)
	}
	return m, nil
}

// Send appends messages and fills in their ids and offsets.
func (fs *FileStorage) Send(msgs ...storage.Message) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var err error
	for i, m := range msgs {
		msgs[i], err = fs.send(m)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetMessages returns messages starting from offset.
func (fs *FileStorage) GetMessages(offset uint64) ([]storage.Message, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.dataFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to the start of a data file: %w", err)
	}

	var msgs []storage.Message
	scanner := newScanner(fs.dataFile)
	for scanner.Scan() {
		if offset > 0 {
			offset--
			continue
		}

		var data storage.Message
		row := scanner.Bytes()
		if err := json.Unmarshal(row, &data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal a message %s: %w", string(row), err)
		}
		msgs = append(msgs, data)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read a data file: %w", err)
	}
	return msgs, nil
}

func (fs *FileStorage) Close() error {
	return fs.dataFile.Close()
}
