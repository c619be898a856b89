package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"envmedic/internal/data"
)

// Probe produces one environment diagnostic. Probes are the only layer that
// spawns subprocesses against the environment; checks consume their results
// through a DataContext.
type Probe interface {
	Key() data.DependencyKey
	Fetch(ctx context.Context, f *Fetcher) (any, error)
}

var (
	probeRegistry = make(map[data.DependencyKey]Probe)
	probeMu       sync.RWMutex
)

func RegisterProbe(p Probe) {
	if p == nil {
		panic("probe is nil")
	}
	k := p.Key()
	if k == "" {
		panic("probe key is empty")
	}

	probeMu.Lock()
	defer probeMu.Unlock()
	if _, exists := probeRegistry[k]; exists {
		panic(fmt.Sprintf("probe %s already registered", k))
	}
	probeRegistry[k] = p
}

func ResolveProbe(key data.DependencyKey) (Probe, bool) {
	probeMu.RLock()
	defer probeMu.RUnlock()
	p, ok := probeRegistry[key]
	return p, ok
}

func ListProbes() []Probe {
	probeMu.RLock()
	defer probeMu.RUnlock()

	all := make([]Probe, 0, len(probeRegistry))
	for _, p := range probeRegistry {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Key() < all[j].Key()
	})
	return all
}
