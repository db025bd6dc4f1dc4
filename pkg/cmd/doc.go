// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package cmd is home to the liquid commands -- instances of cobra.Command
(not to be confused with ./cmd which contains the binary's main package).

For a list of commands run:

	$ liquid help

The default command is "render".
*/
package cmd
