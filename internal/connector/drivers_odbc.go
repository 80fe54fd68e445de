//go:build cgo

package connector

import _ "github.com/alexbrainman/odbc"
