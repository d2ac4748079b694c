package config

import (
	"fmt"

	"github.com/bittoy/mqtt-processor/processor"
	"github.com/bittoy/mqtt-processor/registry"
	"github.com/bittoy/mqtt-processor/types"
)

// BuildProcessors resolves every ProcessorConfig in f against reg into a
// ready-to-dispatch processor.Processor, rejecting duplicate processor
// names with types.ErrDuplicateProcessorName. The returned processors have
// no Logger set, so their per-message drop logs are discarded.
func BuildProcessors(f *File, reg *registry.Registry) ([]*processor.Processor, error) {
	snapshot := reg.Snapshot()
	seen := make(map[string]struct{}, len(f.Processors))
	out := make([]*processor.Processor, 0, len(f.Processors))

	for _, cfg := range f.Processors {
		if _, dup := seen[cfg.Name]; dup {
			return nil, fmt.Errorf("%w: %q", types.ErrDuplicateProcessorName, cfg.Name)
		}
		seen[cfg.Name] = struct{}{}

		p, err := buildOne(cfg, snapshot)
		if err != nil {
			return nil, fmt.Errorf("building processor %q: %w", cfg.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func buildOne(cfg ProcessorConfig, reg *registry.Registry) (*processor.Processor, error) {
	sources, err := cfg.Sources()
	if err != nil {
		return nil, err
	}
	sink, err := cfg.SinkPattern()
	if err != nil {
		return nil, err
	}

	singles := make([]*SingleSourceSpec, 0, len(sources))
	for _, src := range sources {
		chain, err := cfg.BindChain(reg)
		if err != nil {
			return nil, err
		}
		singles = append(singles, &SingleSourceSpec{Source: src, Chain: chain})
	}

	p := &processor.Processor{Name: cfg.Name}
	for _, s := range singles {
		p.Singles = append(p.Singles, &processor.SingleSourceProcessor{
			Name:        cfg.Name,
			Source:      s.Source,
			Chain:       s.Chain,
			DefaultSink: sink,
		})
	}
	return p, nil
}

// SingleSourceSpec pairs one source pattern with the chain built for it.
// Each source pattern of a multi-source config gets its own bound chain
// instance, since bindings hold compiled per-instance state (an expr-lang
// program, a goja runtime pool) that must not be shared across processors.
type SingleSourceSpec struct {
	Source *types.TopicPattern
	Chain  []*registry.Binding
}
