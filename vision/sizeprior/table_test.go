package sizeprior

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/sizeprior/utils"
)

func TestTableFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "object40_property.json")
	table := Table{
		7:  {3, 1, 0.5, 2, 1.5, 0.5},
		12: {1, 1, 1, 1, 1, 1},
	}
	test.That(t, table.WriteFile(fn), test.ShouldBeNil)

	data, err := os.ReadFile(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, `"7": [`)
	test.That(t, string(data), test.ShouldContainSubstring, `"12": [`)

	read, err := ReadTableFile(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, read, test.ShouldResemble, table)
	test.That(t, read.Categories(), test.ShouldResemble, []int{7, 12})
}

func TestReadTableFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadTableFile(filepath.Join(dir, "absent.json"))
	test.That(t, utils.IsFileNotFound(err), test.ShouldBeTrue)

	for _, tc := range []struct {
		name    string
		content string
		errStr  string
	}{
		{"bad key", `{"chair": [1, 1, 1, 1, 1, 1]}`, `bad category id "chair"`},
		{"bad json", `{"7": [1, 1`, "cannot parse size prior table"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fn := filepath.Join(dir, tc.name+".json")
			test.That(t, os.WriteFile(fn, []byte(tc.content), 0o600), test.ShouldBeNil)
			_, err := ReadTableFile(fn)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errStr)
		})
	}
}

func TestTableString(t *testing.T) {
	table := Table{
		12: {1, 1, 1, 1, 1, 1},
		7:  {3, 1, 0.5, 2, 1.5, 0.25},
	}
	out := table.String()
	test.That(t, out, test.ShouldContainSubstring, "CATEGORY")
	test.That(t, out, test.ShouldContainSubstring, "WIDE DX")
	test.That(t, out, test.ShouldContainSubstring, "3.000")
	test.That(t, out, test.ShouldContainSubstring, "0.250")
}
