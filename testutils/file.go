// Package testutils writes dataset fixtures for tests.
package testutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

// WriteFile writes content to path, creating parent directories, and fails the test if it
// cannot.
func WriteFile(tb testing.TB, path, content string) string {
	tb.Helper()
	test.That(tb, os.MkdirAll(filepath.Dir(path), 0o750), test.ShouldBeNil)
	test.That(tb, os.WriteFile(path, []byte(content), 0o600), test.ShouldBeNil)
	return path
}

// WriteJSON writes v to path as JSON.
func WriteJSON(tb testing.TB, path string, v interface{}) string {
	tb.Helper()
	data, err := json.Marshal(v)
	test.That(tb, err, test.ShouldBeNil)
	return WriteFile(tb, path, string(data))
}
