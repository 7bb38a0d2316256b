// Package tokenstore содержит реализацию хранения пары токенов сессии.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mmeshcher/marketscout-client/internal/model"
)

// ErrIncompletePair возвращается при попытке сохранить пару без одного из токенов.
// Пара хранится только целиком: access без refresh бесполезен и наоборот.
var ErrIncompletePair = errors.New("token pair must contain both tokens")

// Store описывает контракт хранилища пары токенов сессии.
type Store interface {
	Load() (model.TokenPair, bool)
	Save(pair model.TokenPair) error
	Clear() error
}

// FileStore хранит пару токенов в JSON-файле сессии.
// Файл переживает перезапуск процесса и удаляется при выходе из сессии.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore создаёт файловое хранилище токенов по указанному пути.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load читает сохранённую пару токенов.
// Отсутствие или повреждение файла трактуется как отсутствие сессии.
func (s *FileStore) Load() (model.TokenPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.TokenPair{}, false
	}

	var pair model.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return model.TokenPair{}, false
	}

	if pair.Access == "" || pair.Refresh == "" {
		return model.TokenPair{}, false
	}

	return pair, true
}

// Save записывает пару токенов в файл сессии с правами только для владельца.
func (s *FileStore) Save(pair model.TokenPair) error {
	if pair.Access == "" || pair.Refresh == "" {
		return ErrIncompletePair
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal token pair: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	return nil
}

// Clear удаляет файл сессии. Отсутствие файла ошибкой не считается.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore хранит пару токенов в памяти процесса. Используется в тестах.
type MemoryStore struct {
	mu   sync.Mutex
	pair model.TokenPair
	set  bool
}

// NewMemoryStore создаёт хранилище токенов в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load возвращает сохранённую пару токенов.
func (s *MemoryStore) Load() (model.TokenPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, s.set
}

// Save сохраняет пару токенов.
func (s *MemoryStore) Save(pair model.TokenPair) error {
	if pair.Access == "" || pair.Refresh == "" {
		return ErrIncompletePair
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.set = true
	return nil
}

// Clear сбрасывает сохранённую пару токенов.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = model.TokenPair{}
	s.set = false
	return nil
}
