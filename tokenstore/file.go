package tokenstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ Store = (*FileStore)(nil)

// errCorrupt marks a token file that is not a JSON object. Writes replace it.
var errCorrupt = errors.New("corrupt token file")

// FileStore keeps the token in a small JSON document on disk, readable only by
// the current user. Other keys in the document are preserved.
type FileStore struct {
	path string
	key  string
	lock sync.Mutex
}

func NewFileStore(path, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{path: path, key: key}
}

func (f *FileStore) Get(_ context.Context) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", err
	}
	token := doc[f.key]
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

func (f *FileStore) Set(_ context.Context, token string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	doc, err := f.readForWrite()
	if err != nil {
		return err
	}
	doc[f.key] = token
	return f.write(doc)
}

func (f *FileStore) Clear(_ context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	doc, err := f.readForWrite()
	if err != nil {
		return err
	}
	if _, ok := doc[f.key]; !ok {
		if len(doc) == 0 {
			return f.remove()
		}
		return nil
	}
	delete(doc, f.key)
	if len(doc) == 0 {
		return f.remove()
	}
	return f.write(doc)
}

func (f *FileStore) remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove")
	}
	return nil
}

// readForWrite is read, except a corrupt document counts as empty so it gets
// overwritten instead of blocking every later write.
func (f *FileStore) readForWrite() (map[string]string, error) {
	doc, err := f.read()
	if errors.Is(err, errCorrupt) {
		log.Warn().Str("path", f.path).Msg("replacing corrupt token file")
		return map[string]string{}, nil
	}
	return doc, err
}

func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore] read")
	}
	doc := map[string]string{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(errCorrupt, "[FileStore] %v", err)
	}
	return doc, nil
}

func (f *FileStore) write(doc map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore] mkdir")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore] marshal")
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore] write")
	}
	return errors.Wrap(os.Rename(tmp, f.path), "[FileStore] rename")
}
