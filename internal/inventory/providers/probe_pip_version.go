package providers

import (
	"context"

	"envmedic/internal/data"
	"envmedic/internal/inventory"
)

type pipVersionProbe struct{}

func (p *pipVersionProbe) Key() data.DependencyKey { return data.DepPipVersion }

func (p *pipVersionProbe) Fetch(ctx context.Context, f *inventory.Fetcher) (any, error) {
	return f.Pip().Version(ctx)
}

func init() {
	inventory.RegisterProbe(&pipVersionProbe{})
}
