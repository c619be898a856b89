package providers

import (
	"context"

	"envmedic/internal/data"
	"envmedic/internal/inventory"
)

type interpreterVersionProbe struct{}

func (p *interpreterVersionProbe) Key() data.DependencyKey { return data.DepInterpreterVersion }

func (p *interpreterVersionProbe) Fetch(ctx context.Context, f *inventory.Fetcher) (any, error) {
	return f.Pip().PythonVersion(ctx)
}

func init() {
	inventory.RegisterProbe(&interpreterVersionProbe{})
}
