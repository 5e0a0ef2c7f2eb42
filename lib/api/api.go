package api

import (
	"fmt"

	"github.com/mpucli/mpu/config"
)

// Build coordinator URL for given path.
func BuildURL(path string) string {
	return config.I.ServerHost + "/" + path
}

// Build coordinator URL for given path format and args.
func BuildURLf(format string, args ...any) string {
	return BuildURL(fmt.Sprintf(format, args...))
}
