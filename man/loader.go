package man

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("no sample stream for animation")

// Loader resolves a clip declared by a script to its sample stream.
type Loader interface {
	Load(script, aniName string) (*Animation, error)
}

// DirLoader indexes extracted *.MAN.json documents under a directory
// once and serves lookups from that index. Both "SCRIPT-ANINAME" and
// plain "ANINAME" file stems are accepted.
type DirLoader struct {
	root  string
	files map[string]string
}

func NewDirLoader(root string) (*DirLoader, error) {
	l := &DirLoader{root: root, files: make(map[string]string)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToUpper(d.Name())
		if !strings.HasSuffix(name, ".MAN.JSON") {
			return nil
		}
		stem := strings.TrimSuffix(name, ".MAN.JSON")
		l.files[stem] = path
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to scan %q for sample streams", root)
	}

	return l, nil
}

func (l *DirLoader) Load(script, aniName string) (*Animation, error) {
	for _, stem := range []string{
		strings.ToUpper(script) + "-" + strings.ToUpper(aniName),
		strings.ToUpper(aniName),
	} {
		if path, ok := l.files[stem]; ok {
			return Load(path)
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "%s/%s", script, aniName)
}
