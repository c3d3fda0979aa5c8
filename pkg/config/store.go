package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/interfaces"
	"github.com/tejocr/tejocr/pkg/utils"
)

const (
	ConfigFileName = "config.json"
	AppDirName     = ".tejocr"
)

// knownKeys are the settings the store accepts. Unknown keys are rejected on
// Set so typos surface instead of silently persisting.
var knownKeys = []string{
	constants.CfgKeyEnginePath,
	constants.CfgKeyDefaultLang,
	constants.CfgKeyDefaultGrayscale,
	constants.CfgKeyDefaultBinarize,
	constants.CfgKeyLastLang,
	constants.CfgKeyLastOutputMode,
}

// FileStore is a JSON-file-backed key-value settings store. Reads degrade
// to the caller's default when the file is missing or unreadable; writes
// are last-writer-wins, which matches single-user interactive use.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ interfaces.SettingsStore = (*FileStore)(nil)

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStore returns the store at the conventional user location
// (~/.tejocr/config.json).
func DefaultStore() *FileStore {
	path, err := DefaultStorePath()
	if err != nil {
		// No resolvable home directory: an unreadable path still yields a
		// working store that serves defaults on Get and errors on Set.
		path = filepath.Join(os.TempDir(), AppDirName, ConfigFileName)
	}
	return NewFileStore(path)
}

// DefaultStorePath returns the full path to the user configuration file.
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", utils.NewConfigurationError("failed to get user home directory", err)
	}
	return filepath.Join(homeDir, AppDirName, ConfigFileName), nil
}

// Path returns the file location this store persists to.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the stored value for key, or def when the key is absent or
// the store is unavailable. Store unavailability is never an error here.
func (s *FileStore) Get(key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return def
	}
	if v, ok := values[key]; ok {
		return v
	}
	return def
}

// Set stores value under key and persists the file.
func (s *FileStore) Set(key, value string) error {
	if !s.isKnownKey(key) {
		return utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		// A corrupt or missing file is replaced rather than failing the
		// write; the store is advisory state, not a system of record.
		values = make(map[string]string)
	}
	values[key] = value
	return s.save(values)
}

// Keys lists the keys the store accepts, sorted.
func (s *FileStore) Keys() []string {
	keys := make([]string, len(knownKeys))
	copy(keys, knownKeys)
	sort.Strings(keys)
	return keys
}

func (s *FileStore) isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, utils.NewConfigurationError("failed to read config file", err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, utils.NewConfigurationError("failed to parse config file", err)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	if err := utils.EnsureDir(filepath.Dir(s.path)); err != nil {
		return utils.NewConfigurationError("failed to create config directory", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return utils.NewConfigurationError("failed to marshal config", err)
	}

	if err := os.WriteFile(s.path, data, constants.DefaultFilePermission); err != nil {
		return utils.NewConfigurationError("failed to write config file", err)
	}
	return nil
}
