// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package experiments selects pre-GA behavior of the liquid command.

Experiments are named in the environment variable experiments.Env and are
fixed once read.
*/
package experiments
