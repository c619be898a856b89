package inventory

import (
	"context"
	"fmt"

	"envmedic/internal/data"
	"envmedic/internal/pip"
	"envmedic/internal/python"
)

// Fetcher resolves dependency keys to environment diagnostics. Results are
// cached per fetcher, and identical in-flight fetches are deduplicated, so an
// expensive subprocess like `pip list` runs at most once per setup run no
// matter how many checks declare it.
type Fetcher struct {
	env   *python.Env
	pip   *pip.Client
	group Group
	cache *Cache
}

func NewFetcher(env *python.Env, client *pip.Client) *Fetcher {
	return &Fetcher{
		env:   env,
		pip:   client,
		cache: NewCache(),
	}
}

func (f *Fetcher) Env() *python.Env {
	return f.env
}

func (f *Fetcher) Pip() *pip.Client {
	return f.pip
}

func (f *Fetcher) Fetch(ctx context.Context, key data.DependencyKey) (any, error) {
	if ctx == nil {
		return nil, fmt.Errorf("Fetch: nil context")
	}
	if f == nil {
		return nil, fmt.Errorf("Fetch: nil Fetcher")
	}
	if f.env == nil || f.pip == nil {
		return nil, fmt.Errorf("Fetch: nil environment or pip client (use NewFetcher)")
	}
	if f.cache == nil {
		return nil, fmt.Errorf("Fetch: nil cache (use NewFetcher)")
	}
	if key == "" {
		return nil, fmt.Errorf("Fetch: empty dependency key")
	}

	probe, ok := ResolveProbe(key)
	if !ok {
		return nil, fmt.Errorf("unsupported dependency key: %s", key)
	}

	flightKey := string(key)

	if val, ok := f.cache.Get(flightKey); ok {
		return val, nil
	}

	val, err, _ := f.group.Do(flightKey, func() (interface{}, error) {
		return probe.Fetch(ctx, f)
	})

	if err == nil {
		f.cache.Set(flightKey, val)
	}

	return val, err
}
