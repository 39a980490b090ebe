package util

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ReadSource returns the contents of a component source file.
//
// The file is memory-mapped and copied out so no mapping outlives the call.
// Empty files and files that cannot be mapped fall back to os.ReadFile.
func ReadSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		// mmap rejects zero-length mappings.
		return []byte{}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return os.ReadFile(path)
	}
	defer m.Unmap()

	data := make([]byte, len(m))
	copy(data, m)
	return data, nil
}
