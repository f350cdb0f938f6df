package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	Convey("Given the generate command", t, func() {
		path := filepath.Join(t.TempDir(), "out", "q.csv")

		Convey("When writing a small fixture", func() {
			out, err := execute("generate", "--out", path, "--rows", "30",
				"--malformed-every", "3", "--seed", "9", "--tags", "go, rust,,zig", "--start", "2024-02-01")

			Convey("Then the file and summary should match", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "wrote 30 rows")
				So(out, ShouldContainSubstring, "20 valid, 10 malformed")

				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(string(data)), "\n")
				So(len(lines), ShouldEqual, 31)
				So(lines[1], ShouldStartWith, "2024-02-01,")
			})
		})

		Convey("When the start date is malformed", func() {
			_, err := execute("generate", "--out", path, "--start", "01/02/2024")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestVerifyCommand(t *testing.T) {
	Convey("Given nothing listening on the target", t, func() {
		_, err := execute("verify", "--url", "http://127.0.0.1:1", "--requests", "1", "--timeout", "1s")

		Convey("Then verify should fail", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unhealthy")
		})
	})

	Convey("Given an unknown log level", t, func() {
		_, err := execute("--log-level", "loud", "generate", "--out", filepath.Join(t.TempDir(), "x.csv"), "--rows", "1")
		So(err, ShouldNotBeNil)
	})
}
