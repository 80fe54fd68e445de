package connector

import (
	"database/sql"
	"slices"
	"sort"
	"strings"
	"sync"

	"table-pump/internal/dialect"
)

// Params is the canonical connection parameter set before it is projected
// into a driver's own keyword names.
type Params struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// Options holds only the URL options the driver accepts.
	Options map[string]string
}

// Driver is the static capability descriptor of one database/sql driver.
type Driver struct {
	// Name is the identifier used in the URL scheme suffix.
	Name string
	// SQLName is the name the driver registers with database/sql.
	SQLName string
	Engines []dialect.Engine
	Style   dialect.Style
	Proc    dialect.ProcCall
	// BatchHint drivers need the row count up front to batch an insert.
	BatchHint bool
	// Options lists the URL option keys forwarded to the DSN.
	Options []string
	// DSN renders the connection string for an engine.
	DSN func(e dialect.Engine, p Params) (string, error)
}

// Supports reports whether the driver can reach an engine.
func (d Driver) Supports(e dialect.Engine) bool {
	return slices.Contains(d.Engines, e)
}

// Accepts reports whether a URL option is forwarded to the driver.
func (d Driver) Accepts(option string) bool {
	return slices.Contains(d.Options, strings.ToLower(option))
}

// Available reports whether the driver library is compiled into the binary.
func (d Driver) Available() bool {
	return slices.Contains(sql.Drivers(), d.SQLName)
}

var (
	driversMu sync.RWMutex
	drivers   = map[string]Driver{}
)

// RegisterDriver adds or replaces a driver descriptor. Bundled drivers
// register themselves at init.
func RegisterDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[strings.ToLower(d.Name)] = d
}

func lookupDriver(name string) (Driver, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[strings.ToLower(name)]
	return d, ok
}

// DriverNames lists the registered driver identifiers, sorted.
func DriverNames() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for n := range drivers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
