package providers

import (
	"context"

	"envmedic/internal/data"
	"envmedic/internal/inventory"
)

type installedPackagesProbe struct{}

func (p *installedPackagesProbe) Key() data.DependencyKey { return data.DepInstalledPackages }

func (p *installedPackagesProbe) Fetch(ctx context.Context, f *inventory.Fetcher) (any, error) {
	return f.Pip().List(ctx)
}

func init() {
	inventory.RegisterProbe(&installedPackagesProbe{})
}
