package gridscrape_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/gridscrape"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := gridscrape.Errorf(gridscrape.EFORBIDDEN, "domain %q is not allowed", "example.com")

	assert.Equal(t, gridscrape.EFORBIDDEN, gridscrape.ErrorCode(err))
	assert.Equal(t, "domain \"example.com\" is not allowed", gridscrape.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("visit: %w", gridscrape.Errorf(gridscrape.EINVALID, "module name not found"))

	assert.Equal(t, gridscrape.EINVALID, gridscrape.ErrorCode(err))
	assert.Equal(t, "module name not found", gridscrape.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("connection reset")

	assert.Equal(t, gridscrape.EINTERNAL, gridscrape.ErrorCode(err))
	assert.Equal(t, "Internal error.", gridscrape.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, gridscrape.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, gridscrape.ErrorMessage(nil))
}
