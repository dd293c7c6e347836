package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/parser"
	"github.com/KaramelBytes/tabloom-cli/internal/session"
	"github.com/KaramelBytes/tabloom-cli/internal/store"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

// storeDir resolves --store, then a .tabloom directory in the working tree,
// then config store_dir.
func storeDir() (string, error) {
	if flagStoreDir != "" {
		return flagStoreDir, nil
	}
	dir, err := utils.FindLocalStore("")
	if err == nil {
		return dir, nil
	}
	if !errors.Is(err, utils.ErrNoLocalStore) {
		logger.Debug("local store lookup failed", "error", err)
	}
	c := currentConfig()
	if c.StoreDir == "" {
		return "", errors.New("store_dir is not configured")
	}
	return c.StoreDir, nil
}

func openStore() (*store.Store, error) {
	dir, err := storeDir()
	if err != nil {
		return nil, err
	}
	logger.Debug("using store", "dir", dir)
	return store.Open(dir)
}

func openSession(popt parser.Options) (*session.Session, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	return session.Open(st, session.Options{Logger: logger, Parser: popt})
}

// currentTable opens the session and returns its live table.
func currentTable() (*table.Table, error) {
	s, err := openSession(parser.Options{})
	if err != nil {
		return nil, err
	}
	return s.Table()
}

func httpTimeout() time.Duration {
	c := currentConfig()
	if c.HTTPTimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s (use ','|';'|'tab'|'pipe')", s)
}

func printJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// emit prints content or, when path is set, writes it atomically.
func emit(w io.Writer, path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(w, content)
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}
	if err := utils.SafeWriteFile(path, []byte(content)); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Wrote %s\n", path)
	return nil
}

func requireFlags(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, "--"+pairs[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingFlag, strings.Join(missing, ", "))
	}
	return nil
}
