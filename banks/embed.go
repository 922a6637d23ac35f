package banks

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml
var banksFS embed.FS

// Load reads a bank or graph source by banks-relative path. A file on disk
// under banks/ shadows the embedded copy, so edited sources win while the
// demo is running.
func Load(name string) ([]byte, error) {
	clean := cleanBankPath(name)
	if data, err := os.ReadFile(diskBankPath(clean)); err == nil {
		return data, nil
	}
	return banksFS.ReadFile(clean)
}

// ModTime returns the on-disk modification time of a source, when present.
func ModTime(name string) (time.Time, bool) {
	clean := cleanBankPath(name)
	info, err := os.Stat(diskBankPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanBankPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "banks/") {
		return strings.TrimPrefix(s, "banks/")
	}
	return s
}

func diskBankPath(clean string) string {
	return filepath.Join("banks", filepath.FromSlash(clean))
}
