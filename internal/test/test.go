// Package test contains assertion helpers shared by package tests.
package test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/ava12/rdp"
)

// ExpectErrorCode fails the test unless e is an rdp.Error (possibly wrapped) with expected code.
func ExpectErrorCode(t testing.TB, expected int, e error, msgAndArgs ...any) bool {
	t.Helper()
	var re *rdp.Error
	if !errors.As(e, &re) {
		return assert.Fail(t, "expecting rdp.Error", "expecting error code %d, got %v", expected, e)
	}
	return assert.Equal(t, expected, re.Code, msgAndArgs...)
}

// ExpectErrorPos fails the test unless e is an rdp.Error at expected line and column.
func ExpectErrorPos(t testing.TB, line, col int, e error) bool {
	t.Helper()
	var re *rdp.Error
	if !errors.As(e, &re) {
		return assert.Fail(t, "expecting rdp.Error", "got %v", e)
	}
	return assert.Equal(t, line, re.Line, "line") && assert.Equal(t, col, re.Col, "column")
}

// RequireErrorCode is like ExpectErrorCode but stops the test on failure.
func RequireErrorCode(t testing.TB, expected int, e error) *rdp.Error {
	t.Helper()
	if !ExpectErrorCode(t, expected, e) {
		t.FailNow()
	}
	var re *rdp.Error
	errors.As(e, &re)
	return re
}
