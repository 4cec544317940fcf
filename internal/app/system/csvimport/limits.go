// internal/app/system/csvimport/limits.go
package csvimport

// Row and file limits for a single import run.
const (
	MaxFileSize = 20 << 20 // 20 MB
	MaxRows     = 50000
)
