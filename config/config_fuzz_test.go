package config

import (
	"os"
	"path/filepath"
	"testing"
)

func FuzzLoadConfig(f *testing.F) {
	f.Add([]byte(`
[session]
directory = "/var/log/app"
from = "now-1d"

[filters]
errors = 'WHERE event = "ERROR"'
`))
	f.Add([]byte(""))
	f.Add([]byte(`[session]`))
	f.Add([]byte(`[filters]
a = 1
`))

	f.Fuzz(func(t *testing.T, data []byte) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fuzz.toml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return
		}
		// Must not panic; malformed input surfaces as an error.
		LoadConfig(path)
	})
}
