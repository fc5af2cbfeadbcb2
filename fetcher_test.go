package gridscrape_test

import (
	"testing"

	"github.com/fwojciec/gridscrape"
	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		code   string
	}{
		{"not found", 404, gridscrape.ENOTFOUND},
		{"gone", 410, gridscrape.ENOTFOUND},
		{"forbidden", 403, gridscrape.EINVALID},
		{"bad request", 400, gridscrape.EINVALID},
		{"request timeout stays retryable", 408, gridscrape.EINTERNAL},
		{"too many requests stays retryable", 429, gridscrape.EINTERNAL},
		{"server error stays retryable", 503, gridscrape.EINTERNAL},
		{"redirect stays retryable", 304, gridscrape.EINTERNAL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := gridscrape.StatusError(tt.status, "https://www.modulargrid.net/e/x")

			assert.Equal(t, tt.code, gridscrape.ErrorCode(err))
			assert.Contains(t, err.Error(), "https://www.modulargrid.net/e/x")
		})
	}
}
