package pipeline

import (
	"github.com/matzehuels/bubblepack/pkg/engine"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout builds an engine from opts, drives it into opts.Mode and
// returns its snapshot. Options must already be validated.
//
// Grouped goes through the clustered layout first, matching what an
// interactive session does. Converging is reported as the state right after
// the converge pack, before the engine settles back into Clustered.
func GenerateLayout(opts Options) (engine.Snapshot, error) {
	mode, err := engine.ParseMode(opts.Mode)
	if err != nil {
		return engine.Snapshot{}, err
	}
	e, err := engine.New(opts.EngineOptions()...)
	if err != nil {
		return engine.Snapshot{}, err
	}

	switch mode {
	case engine.Grouped:
		if err := e.EnterGrouped(); err != nil {
			return engine.Snapshot{}, err
		}
	case engine.Converging:
		if err := e.EnterGrouped(); err != nil {
			return engine.Snapshot{}, err
		}
		if _, err := e.BeginConverge(); err != nil {
			return engine.Snapshot{}, err
		}
	}
	return e.Snapshot(), nil
}
