package resource

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPort is the conventional kdb listener port.
const DefaultPort = 5000

// Binding identifies a remote table: where it lives and how it is laid
// out on disk.
type Binding struct {
	URI         string
	Host        string
	Port        int
	Table       string
	Partitioned bool
	Splayed     bool
}

// ParseURI parses a kdb://host[:port]/table identifier.
func ParseURI(uri string) (Binding, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Binding{}, fmt.Errorf("parse resource uri: %w", err)
	}
	if u.Scheme != "kdb" {
		return Binding{}, fmt.Errorf("parse resource uri %q: unsupported scheme %q", uri, u.Scheme)
	}
	if u.Hostname() == "" {
		return Binding{}, fmt.Errorf("parse resource uri %q: missing host", uri)
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return Binding{}, fmt.Errorf("parse resource uri %q: invalid port %q", uri, p)
		}
	}

	table := strings.Trim(u.Path, "/")
	if table == "" || strings.Contains(table, "/") {
		return Binding{}, fmt.Errorf("parse resource uri %q: path must name exactly one table", uri)
	}

	return Binding{URI: uri, Host: u.Hostname(), Port: port, Table: table}, nil
}
