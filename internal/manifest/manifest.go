package manifest

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"

	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Manifest holds the package.json fields monokit reports on. Unknown fields
// are ignored when reading and preserved when rewriting.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Private     bool   `json:"private,omitempty"`
	Description string `json:"description,omitempty"`
}

// Parse decodes manifest bytes. The document must be a JSON object.
func Parse(data []byte) (*Manifest, error) {
	m, err := decode(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "decoding manifest")
	}
	return m, nil
}

// Load reads and decodes the manifest at path.
func Load(fsys afero.Fs, path string) (*Manifest, error) {
	data, err := readFile(fsys, path)
	if err != nil {
		return nil, err
	}
	m, err := decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "decoding %s", path)
	}
	return m, nil
}

// SetName replaces the top-level name field of the manifest at path, adding
// it when absent. Key order, indentation and every other field are kept.
func SetName(fsys afero.Fs, path, name string) error {
	data, err := readFile(fsys, path)
	if err != nil {
		return err
	}
	if err := requireObject(data); err != nil {
		return errors.Wrapf(err, errors.ErrManifestInvalid, "rewriting %s", path)
	}

	out, err := sjson.SetBytes(data, "name", name)
	if err != nil {
		return errors.Wrapf(err, errors.ErrManifestInvalid, "setting name in %s", path)
	}

	perm := fs.FileMode(0644)
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(fsys, path, out, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "writing %s", path)
	}
	return nil
}

func decode(data []byte) (*Manifest, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func requireObject(data []byte) error {
	if !gjson.ValidBytes(data) {
		return stderrors.New("not valid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return stderrors.New("not a JSON object")
	}
	return nil
}

func readFile(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrManifestMissing, "manifest %s not found", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "reading manifest %s", path)
	}
	return data, nil
}
