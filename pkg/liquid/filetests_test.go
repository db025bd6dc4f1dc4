// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package liquid_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carvel.dev/liquid/pkg/liquid"
	"carvel.dev/liquid/pkg/stdlib"
	"github.com/k14s/difflib"
)

var (
	selectedFileTestPath = kvArg("TestFileTests.filetest")
	showErrs             = kvArg("TestFileTests.errs")
)

// fileTestData is the data every file test renders against.
var fileTestData = map[string]interface{}{
	"name":  "World",
	"flag":  false,
	"items": []interface{}{1, 2, 3},
	"user": map[string]interface{}{
		"name": "Bob",
		"tags": []interface{}{"x", "y"},
	},
}

// TestFileTests renders each template under filetests/. A file holds the
// template, a "+++" line and the expected output (one trailing newline is
// dropped). Expected output starting with "ERR: " is an error message.
// Files named strict-* render with strict variables and filters.
func TestFileTests(t *testing.T) {
	files, err := os.ReadDir("filetests")
	if err != nil {
		t.Fatal(err)
	}

	if len(selectedFileTestPath) > 0 {
		fmt.Printf("only running %s test(s)\n", selectedFileTestPath)
	}

	var errs []error

	for _, file := range files {
		filePath := filepath.Join("filetests", file.Name())

		if len(selectedFileTestPath) > 0 && !strings.HasPrefix(file.Name(), selectedFileTestPath) {
			continue
		}

		contents, err := os.ReadFile(filePath)
		if err != nil {
			t.Fatal(err)
		}

		const (
			testSep   = "\n+++\n"
			errPrefix = "ERR: "
		)

		pieces := strings.SplitN(string(contents), testSep, 2)
		if len(pieces) != 2 {
			t.Fatalf("expected file %s to include +++ separator", filePath)
		}

		opts := liquid.RenderOptions{}
		if strings.HasPrefix(file.Name(), "strict-") {
			opts.StrictVariables = true
			opts.StrictFilters = true
		}

		resultStr, renderErr := renderFileTest(pieces[0], opts)
		expectedStr := strings.TrimSuffix(pieces[1], "\n")

		if strings.HasPrefix(expectedStr, errPrefix) {
			if renderErr == nil {
				err = fmt.Errorf("expected error, but did not receive it; output:\n%s", resultStr)
			} else {
				err = expectEquals(renderErr.Error(), strings.TrimPrefix(expectedStr, errPrefix))
			}
		} else {
			if renderErr == nil {
				err = expectEquals(resultStr, expectedStr)
			} else {
				err = fmt.Errorf("unexpected error: %s", renderErr)
			}
		}

		if err != nil {
			if showErrs == "t" {
				sep := strings.Repeat(".", 80)
				fmt.Printf("%s\n%s%s\n", sep, err, sep)
			}
			errs = append(errs, fmt.Errorf("checking %s: %s", file.Name(), err))
		}
	}

	for _, err := range errs {
		t.Errorf("%s", err)
	}

	if len(selectedFileTestPath) > 0 {
		t.Errorf("skipped tests")
	}
}

func renderFileTest(src string, opts liquid.RenderOptions) (string, error) {
	tpl, err := liquid.NewParser(stdlib.NewRegistry(), liquid.WithName("stdin")).Parse(src)
	if err != nil {
		return "", err
	}
	return tpl.RenderGo(fileTestData, opts)
}

func expectEquals(resultStr, expectedStr string) error {
	if resultStr != expectedStr {
		diff := difflib.PPDiff(strings.Split(expectedStr, "\n"), strings.Split(resultStr, "\n"))
		return fmt.Errorf("not equal; diff expected...actual:\n%s", diff)
	}
	return nil
}

func kvArg(name string) string {
	name += "="
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, name) {
			return strings.TrimPrefix(arg, name)
		}
	}
	return ""
}
