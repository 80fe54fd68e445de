package connector

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"table-pump/internal/dialect"
	"table-pump/internal/errs"
)

// Descriptor is a parsed connection URL. It does not change for the life of
// a Database; Reconnect reuses it.
type Descriptor struct {
	Engine   dialect.Engine
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Options  map[string]string
}

// Parse reads engine[+driver]://[user[:password]@]host[:port]/database[?opt=val].
// It fails with ErrConfiguration before any I/O when the URL is malformed or
// names an unsupported engine or driver.
func Parse(raw string) (*Descriptor, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, errs.Configf("invalid connection url: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errs.Configf("connection url %q needs a scheme and a host", u.Redacted())
	}

	engineName, driverName, _ := strings.Cut(u.Scheme, "+")
	engine, ok := dialect.ParseEngine(engineName)
	if !ok {
		return nil, errs.Configf("unsupported engine %q", engineName)
	}
	policy, _ := dialect.Lookup(engine)
	if driverName == "" {
		driverName = policy.DefaultDriver
	}
	drv, ok := lookupDriver(strings.ToLower(driverName))
	if !ok {
		return nil, errs.Configf("unsupported driver %q (available: %s)", driverName, strings.Join(DriverNames(), ", "))
	}
	if !drv.Supports(engine) {
		return nil, errs.Configf("driver %q cannot reach %s", drv.Name, engine)
	}

	d := &Descriptor{
		Engine:   engine,
		Driver:   drv.Name,
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
		Options:  map[string]string{},
	}
	if p := u.Port(); p != "" {
		d.Port, err = strconv.Atoi(p)
		if err != nil {
			return nil, errs.Configf("invalid port %q", p)
		}
	}
	if u.User != nil {
		d.User = u.User.Username()
		d.Password, _ = u.User.Password()
	}
	for k, v := range u.Query() {
		if len(v) > 0 {
			d.Options[strings.ToLower(k)] = v[len(v)-1]
		}
	}
	return d, nil
}

// Style is the placeholder style of the descriptor's driver.
func (d *Descriptor) Style() dialect.Style {
	if drv, ok := lookupDriver(d.Driver); ok {
		return drv.Style
	}
	return dialect.StyleQMark
}

// PortOrDefault is the explicit port, or the engine default when none was given.
func (d *Descriptor) PortOrDefault() int {
	if d.Port != 0 {
		return d.Port
	}
	p, _ := dialect.Lookup(d.Engine)
	return p.DefaultPort
}

// String renders the descriptor as a URL with the password masked.
func (d *Descriptor) String() string {
	u := url.URL{
		Scheme: d.Engine.String() + "+" + d.Driver,
		Host:   d.Host,
		Path:   "/" + d.Database,
	}
	if d.Port != 0 {
		u.Host = fmt.Sprintf("%s:%d", d.Host, d.Port)
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, "xxxxx")
		} else {
			u.User = url.User(d.User)
		}
	}
	if len(d.Options) > 0 {
		keys := make([]string, 0, len(d.Options))
		for k := range d.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		q := url.Values{}
		for _, k := range keys {
			q.Set(k, d.Options[k])
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
