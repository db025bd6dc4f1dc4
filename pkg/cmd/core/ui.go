// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type PlainUI struct {
	debug  bool
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

func NewPlainUI(debug bool) PlainUI {
	return NewCustomWriterUI(debug, os.Stdout, os.Stderr)
}

// NewCustomWriterUI is used in tests to capture stdout and stderr.
func NewCustomWriterUI(debug bool, stdout, stderr io.Writer) PlainUI {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return PlainUI{debug, stdout, stderr, initLogger(debug, stderr)}
}

func (ui PlainUI) Printf(str string, args ...interface{}) {
	fmt.Fprintf(ui.stdout, str, args...)
}

func (ui PlainUI) Warnf(str string, args ...interface{}) {
	fmt.Fprintf(ui.stderr, str, args...)
}

func (ui PlainUI) Debugf(str string, args ...interface{}) {
	if ui.debug {
		fmt.Fprintf(ui.stderr, str, args...)
	}
}

func (ui PlainUI) Stdout() io.Writer { return ui.stdout }

func (ui PlainUI) DebugWriter() io.Writer {
	if ui.debug {
		return ui.stderr
	}
	return noopWriter{}
}

// Logger is a development logger writing to stderr with --debug, nop otherwise.
func (ui PlainUI) Logger() *zap.Logger { return ui.logger }

func initLogger(debug bool, w io.Writer) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

type noopWriter struct{}

var _ io.Writer = noopWriter{}

func (w noopWriter) Write(data []byte) (int, error) { return len(data), nil }
