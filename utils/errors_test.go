package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestFileNotFoundError(t *testing.T) {
	err := NewFileNotFoundError("/data/scans/a/region0.ply")
	test.That(t, err.Error(), test.ShouldEqual, `file "/data/scans/a/region0.ply" does not exist`)
	test.That(t, IsFileNotFound(err), test.ShouldBeTrue)
	test.That(t, IsFileNotFound(errors.Wrap(err, "exporting scan")), test.ShouldBeTrue)
	test.That(t, IsFileNotFound(errors.New("whoops")), test.ShouldBeFalse)
	test.That(t, IsFileNotFound(nil), test.ShouldBeFalse)
}

func TestCheckFileExists(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "present.json")
	test.That(t, os.WriteFile(fn, []byte("{}"), 0o600), test.ShouldBeNil)

	test.That(t, CheckFileExists(fn), test.ShouldBeNil)

	err := CheckFileExists(filepath.Join(dir, "absent.json"))
	test.That(t, IsFileNotFound(err), test.ShouldBeTrue)

	err = CheckFileExists(dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsFileNotFound(err), test.ShouldBeFalse)
	test.That(t, err.Error(), test.ShouldContainSubstring, "is a directory")
}

func TestSafeJoinDir(t *testing.T) {
	joined, err := SafeJoinDir("/data/scans", "17DRP5sb8fy_00")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joined, test.ShouldEqual, "/data/scans/17DRP5sb8fy_00")

	_, err = SafeJoinDir("/data/scans", "../etc")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsafe path join")
}

func TestDegToRad(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, 3.141592653589793)
	test.That(t, DegToRad(0), test.ShouldEqual, 0.0)
	test.That(t, DegToRad(90), test.ShouldAlmostEqual, 1.5707963267948966)
}

func TestConfigValidationError(t *testing.T) {
	err := NewConfigValidationError("sizeprior.json", errors.New("bad layout"))
	test.That(t, err.Error(), test.ShouldEqual, `error validating "sizeprior.json": bad layout`)
}
