package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// State is a key/value store for the daemon data.
type State interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Keys lists keys with the given prefix in lexical order
	Keys(prefix string) ([]string, error)
	Close() error
}

type LevelDBState struct {
	sync.Mutex
	stateDb     *leveldb.DB
	stateDbPath string
}

func NewLevelDBState(stateDbPath string) (*LevelDBState, error) {
	db, err := leveldb.OpenFile(stateDbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open stateDB: %w", err)
	}

	return &LevelDBState{
		stateDb:     db,
		stateDbPath: stateDbPath,
	}, nil
}

// Get returns nil for a missing key.
func (s *LevelDBState) Get(key string) ([]byte, error) {
	s.Lock()
	defer s.Unlock()

	value, err := s.stateDb.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		// a key deleted while still in the memtable comes back as an empty slice
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value with key {%s} from leveldb storage: %w", key, err)
	}
	return value, nil
}

func (s *LevelDBState) Set(key string, value []byte) error {
	s.Lock()
	defer s.Unlock()

	if err := s.stateDb.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("failed to save value with key %s: %w", key, err)
	}
	return nil
}

func (s *LevelDBState) Delete(key string) error {
	s.Lock()
	defer s.Unlock()

	err := s.stateDb.Delete([]byte(key), nil)
	if err != nil && !errors.Is(err, leveldb.ErrNotFound) {
		return fmt.Errorf("failed to delete value with key {%s}: %w", key, err)
	}
	return nil
}

func (s *LevelDBState) Keys(prefix string) ([]string, error) {
	s.Lock()
	defer s.Unlock()

	iter := s.stateDb.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate keys with prefix {%s}: %w", prefix, err)
	}
	return keys, nil
}

func (s *LevelDBState) Close() error {
	s.Lock()
	defer s.Unlock()

	return s.stateDb.Close()
}

func MakeCompositeKey(prefix, key string) []byte {
	return []byte(MakeCompositeKeyString(prefix, key))
}

func MakeCompositeKeyString(prefix, key string) string {
	return fmt.Sprintf("%s_%s", prefix, key)
}
