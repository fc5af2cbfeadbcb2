package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/gridscrape"
	"github.com/fwojciec/gridscrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleWriter_SaveModule(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SaveModuleFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *gridscrape.Module
		w := &mock.ModuleWriter{
			SaveModuleFn: func(_ context.Context, m *gridscrape.Module) error {
				calledWith = m
				return nil
			},
		}

		m := &gridscrape.Module{
			URL:          "https://example.com/e/mutable-instruments/plaits",
			Name:         "Plaits",
			Manufacturer: "Mutable Instruments",
			Width:        gridscrape.Known(12),
		}

		err := w.SaveModule(context.Background(), m)

		require.NoError(t, err)
		assert.Equal(t, m, calledWith)
	})
}
