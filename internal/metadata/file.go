package metadata

import (
	"context"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"

	"github.com/tacogips/kickstart-salt/internal/debug"
	"github.com/tacogips/kickstart-salt/internal/jsondoc"
)

// FileStore serves metadata from a local JSONC document shaped like
//
//	{
//	  // instance keys win over project keys
//	  "instance": {"attributes/dns": {"entries": ["10.0.0.1"]}},
//	  "project":  {"project-id": "my-project"},
//	}
//
// String values are returned verbatim; any other value is returned as
// JSON text, so structured attributes can be written inline.
type FileStore struct {
	path   string
	scopes map[Scope]*jsondoc.Object
}

// LoadFile reads a FileStore from path.
func LoadFile(fsys afero.Fs, path string) (*FileStore, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &MetadataError{Type: InvalidStore, Source: path, Message: "failed to read metadata file", Cause: err}
	}
	return ParseFile(path, data)
}

// ParseFile builds a FileStore from JSONC bytes. path is used in errors.
func ParseFile(path string, data []byte) (*FileStore, error) {
	doc, err := jsondoc.ParseObject(jsonc.ToJSON(data), "metadata file "+path)
	if err != nil {
		return nil, &MetadataError{Type: InvalidStore, Source: path, Message: "invalid metadata file", Cause: err}
	}

	store := &FileStore{path: path, scopes: make(map[Scope]*jsondoc.Object)}
	for _, scope := range []Scope{Instance, Project} {
		obj, _, err := doc.GetObject(scope.String())
		if err != nil {
			return nil, &MetadataError{Type: InvalidStore, Source: path, Message: "invalid scope", Cause: err}
		}
		store.scopes[scope] = obj
		debug.Debug("[metadata] %s: %d %s keys", path, obj.Len(), scope)
	}
	return store, nil
}

// Get implements Getter.
func (s *FileStore) Get(_ context.Context, scope Scope, key string) (string, bool, error) {
	v, ok := s.scopes[scope].Get(key)
	if !ok || v == nil {
		return "", false, nil
	}
	if str, isString := v.(string); isString {
		return str, true, nil
	}
	return jsondoc.Encode(v), true, nil
}
