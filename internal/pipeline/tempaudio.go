package pipeline

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// tempAudio names a scratch audio file inside the work directory. The file
// itself is created by the downloader; Release removes it at most once and
// tolerates the file never having been written.
type tempAudio struct {
	path string
	once sync.Once
	err  error
}

func newTempAudio(workDir, codec string) *tempAudio {
	name := "audio_" + uuid.NewString() + "." + codec
	return &tempAudio{path: filepath.Join(workDir, name)}
}

func (t *tempAudio) Path() string {
	return t.path
}

// Release removes the temp audio file. Safe to call multiple times and from
// deferred cleanup paths.
func (t *tempAudio) Release() error {
	t.once.Do(func() {
		if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
			t.err = err
		}
	})
	return t.err
}
