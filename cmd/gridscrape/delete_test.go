package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/gridscrape"
	main "github.com/fwojciec/gridscrape/cmd/gridscrape"
	"github.com/fwojciec/gridscrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mathsURL = "https://www.modulargrid.net/e/make-noise/maths"

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes module when --force is set", func(t *testing.T) {
		t.Parallel()

		var deletedURL string
		modules := &mock.ModuleService{
			FindModuleByURLFn: func(_ context.Context, url string) (*gridscrape.Module, error) {
				if url == mathsURL {
					return &gridscrape.Module{URL: mathsURL, Name: "Maths"}, nil
				}
				return nil, gridscrape.Errorf(gridscrape.ENOTFOUND, "module not found")
			},
			DeleteModuleFn: func(_ context.Context, url string) error {
				deletedURL = url
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Modules: modules,
		}

		cmd := &main.DeleteCmd{URL: mathsURL, Force: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, mathsURL, deletedURL)
		assert.Contains(t, stdout.String(), `Deleted module "Maths"`)
	})

	t.Run("requires --force flag", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Modules: &mock.ModuleService{},
		}

		cmd := &main.DeleteCmd{URL: mathsURL, Force: false}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, gridscrape.EINVALID, gridscrape.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("reports unknown module", func(t *testing.T) {
		t.Parallel()

		modules := &mock.ModuleService{
			FindModuleByURLFn: func(_ context.Context, url string) (*gridscrape.Module, error) {
				return nil, gridscrape.Errorf(gridscrape.ENOTFOUND, "module not found")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Modules: modules,
		}

		err := (&main.DeleteCmd{URL: "https://www.modulargrid.net/e/x/unknown", Force: true}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, gridscrape.ENOTFOUND, gridscrape.ErrorCode(err))
		assert.Contains(t, stderr.String(), "gridscrape list")
	})
}
