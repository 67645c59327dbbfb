package state

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// StateKey is the single storage key the wizard persists under.
const StateKey = "new-sale-state"

// Store holds the one in-progress sale blob. Load returns nil for
// absent or corrupt data; it never fails. Save overwrites the whole
// blob with no merge semantics.
type Store interface {
	Load() *SaleState
	Save(s *SaleState) error
}

// FileStore keeps the blob as a JSON file in the operator's config
// directory, the tab-storage analog for a CLI session.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (f *FileStore) path() string {
	return filepath.Join(f.Dir, StateKey+".json")
}

func (f *FileStore) Load() *SaleState {
	b, err := os.ReadFile(f.path())
	if err != nil {
		return nil
	}
	var s SaleState
	if err := json.Unmarshal(b, &s); err != nil {
		// Malformed persisted state is treated as absent.
		return nil
	}
	return &s
}

// Save writes via a temp file then rename so a crash mid-write cannot
// leave a truncated blob behind.
func (f *FileStore) Save(s *SaleState) error {
	if err := os.MkdirAll(f.Dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	tmp := f.path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path())
}

// Clear removes the persisted blob, ending the wizard session.
func (f *FileStore) Clear() error {
	err := os.Remove(f.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemStore is an in-process store for tests. It round-trips through
// JSON so serialization behavior matches the file store.
type MemStore struct {
	blob []byte
}

func (m *MemStore) Load() *SaleState {
	if m.blob == nil {
		return nil
	}
	var s SaleState
	if err := json.Unmarshal(m.blob, &s); err != nil {
		return nil
	}
	return &s
}

func (m *MemStore) Save(s *SaleState) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.blob = b
	return nil
}

func (m *MemStore) Corrupt() {
	m.blob = []byte("{not json")
}
