// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package errs

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned when registering extensions after compilation started.
var ErrFrozen = errors.New("registry is frozen: extensions must be registered before compiling templates")

// DuplicateNameError is returned when a tag or filter name is already registered.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s '%s' is already registered (hint: use Override%s to replace it)",
		e.Kind, e.Name, capitalize(e.Kind))
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
