package processor

import "github.com/bittoy/mqtt-processor/types"

// Processor is a named group of SingleSourceProcessors that share a
// configuration entry: a config entry's "source" may be a list, compiled
// into one SingleSourceProcessor per source pattern. Process tries each in
// declaration order and returns the first one that produces output, since a
// single concrete topic can only ever match one source pattern of a
// well-formed configuration.
type Processor struct {
	Name    string
	Singles []*SingleSourceProcessor
}

// Process runs topic/body against each of p.Singles in order, returning the
// first non-empty result.
func (p *Processor) Process(topic string, body any) []types.Message {
	for _, single := range p.Singles {
		if out := single.Process(topic, body); len(out) > 0 {
			return out
		}
	}
	return nil
}
