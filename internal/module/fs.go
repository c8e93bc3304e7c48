package module

import "os"

// defaultReadFile is the Loader's production ReadFile: plain disk
// access, swappable in tests.
func defaultReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
