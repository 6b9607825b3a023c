package testutil

import (
	"io/fs"
	"sync"

	"github.com/arthur-debert/rewind/pkg/types"
)

// CountingFS wraps a types.FS and counts every call, including
// read-only ones. Tests use it to prove that validation short-circuits
// before any filesystem access and that previews never mutate.
type CountingFS struct {
	mu      sync.Mutex
	inner   types.FS
	calls   int
	mutates int
}

// NewCountingFS wraps inner with call counting.
func NewCountingFS(inner types.FS) *CountingFS {
	return &CountingFS{inner: inner}
}

// Calls returns the total number of filesystem calls observed.
func (c *CountingFS) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Mutations returns the number of mutating calls observed.
func (c *CountingFS) Mutations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mutates
}

// Reset zeroes the counters.
func (c *CountingFS) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
	c.mutates = 0
}

func (c *CountingFS) count(mutating bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if mutating {
		c.mutates++
	}
}

func (c *CountingFS) Stat(name string) (fs.FileInfo, error) {
	c.count(false)
	return c.inner.Stat(name)
}

func (c *CountingFS) ReadFile(name string) ([]byte, error) {
	c.count(false)
	return c.inner.ReadFile(name)
}

func (c *CountingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	c.count(true)
	return c.inner.WriteFile(name, data, perm)
}

func (c *CountingFS) MkdirAll(path string, perm fs.FileMode) error {
	c.count(true)
	return c.inner.MkdirAll(path, perm)
}

func (c *CountingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	c.count(false)
	return c.inner.ReadDir(name)
}

func (c *CountingFS) Remove(name string) error {
	c.count(true)
	return c.inner.Remove(name)
}

func (c *CountingFS) RemoveAll(path string) error {
	c.count(true)
	return c.inner.RemoveAll(path)
}

func (c *CountingFS) Rename(oldpath, newpath string) error {
	c.count(true)
	return c.inner.Rename(oldpath, newpath)
}

func (c *CountingFS) Lstat(name string) (fs.FileInfo, error) {
	c.count(false)
	return c.inner.Lstat(name)
}
