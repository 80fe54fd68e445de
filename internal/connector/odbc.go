package connector

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"table-pump/internal/errs"
)

// Catalog lists the human readable names of installed ODBC drivers.
type Catalog interface {
	Drivers() ([]string, error)
}

// CatalogFunc adapts a function to Catalog.
type CatalogFunc func() ([]string, error)

func (f CatalogFunc) Drivers() ([]string, error) { return f() }

// IniCatalog reads driver sections from unixODBC odbcinst.ini files. The
// first readable file in Paths wins.
type IniCatalog struct {
	Paths []string
}

// DefaultCatalog looks in $ODBCSYSINI, /etc and /usr/local/etc.
func DefaultCatalog() IniCatalog {
	var paths []string
	if dir := os.Getenv("ODBCSYSINI"); dir != "" {
		paths = append(paths, filepath.Join(dir, "odbcinst.ini"))
	}
	paths = append(paths, "/etc/odbcinst.ini", "/usr/local/etc/odbcinst.ini")
	return IniCatalog{Paths: paths}
}

func (c IniCatalog) Drivers() ([]string, error) {
	for _, p := range c.Paths {
		f, err := os.Open(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()

		var names []string
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
				name := strings.TrimSpace(line[1 : len(line)-1])
				if name != "" && !strings.EqualFold(name, "ODBC") {
					names = append(names, name)
				}
			}
		}
		return names, sc.Err()
	}
	return nil, nil
}

// FindODBCDriver picks the last installed driver whose name contains hint,
// ignoring case.
func FindODBCDriver(c Catalog, hint string) (string, error) {
	names, err := c.Drivers()
	if err != nil {
		return "", errs.Configf("cannot list odbc drivers: %v", err)
	}
	if len(names) == 0 {
		return "", errs.Configf("no odbc drivers installed")
	}
	want := strings.ToLower(hint)
	found := ""
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), want) {
			found = n
		}
	}
	if found == "" {
		return "", errs.Configf("no installed odbc driver matches %q (installed: %s)", hint, strings.Join(names, ", "))
	}
	return found, nil
}
