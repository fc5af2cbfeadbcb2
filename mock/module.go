package mock

import (
	"context"

	"github.com/fwojciec/gridscrape"
)

// Compile-time interface verification.
var (
	_ gridscrape.ModuleWriter  = (*ModuleWriter)(nil)
	_ gridscrape.ModuleStore   = (*ModuleStore)(nil)
	_ gridscrape.ModuleService = (*ModuleService)(nil)
)

// ModuleWriter is a mock implementation of gridscrape.ModuleWriter.
type ModuleWriter struct {
	SaveModuleFn func(ctx context.Context, m *gridscrape.Module) error
}

func (w *ModuleWriter) SaveModule(ctx context.Context, m *gridscrape.Module) error {
	return w.SaveModuleFn(ctx, m)
}

// ModuleStore is a mock implementation of gridscrape.ModuleStore.
type ModuleStore struct {
	SaveModuleFn func(ctx context.Context, m *gridscrape.Module) error
	CommitFn     func() error
	AbortFn      func() error
}

func (s *ModuleStore) SaveModule(ctx context.Context, m *gridscrape.Module) error {
	return s.SaveModuleFn(ctx, m)
}

func (s *ModuleStore) Commit() error {
	return s.CommitFn()
}

func (s *ModuleStore) Abort() error {
	return s.AbortFn()
}

// ModuleService is a mock implementation of gridscrape.ModuleService.
type ModuleService struct {
	SaveModuleFn      func(ctx context.Context, m *gridscrape.Module) error
	FindModuleByURLFn func(ctx context.Context, url string) (*gridscrape.Module, error)
	FindModulesFn     func(ctx context.Context, filter gridscrape.ModuleFilter) ([]*gridscrape.Module, error)
	DeleteModuleFn    func(ctx context.Context, url string) error
}

func (s *ModuleService) SaveModule(ctx context.Context, m *gridscrape.Module) error {
	return s.SaveModuleFn(ctx, m)
}

func (s *ModuleService) FindModuleByURL(ctx context.Context, url string) (*gridscrape.Module, error) {
	return s.FindModuleByURLFn(ctx, url)
}

func (s *ModuleService) FindModules(ctx context.Context, filter gridscrape.ModuleFilter) ([]*gridscrape.Module, error) {
	return s.FindModulesFn(ctx, filter)
}

func (s *ModuleService) DeleteModule(ctx context.Context, url string) error {
	return s.DeleteModuleFn(ctx, url)
}
