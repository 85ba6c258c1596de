package main

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/ogzhanolguncu/cpgo/internal/backup"
	"github.com/ogzhanolguncu/cpgo/internal/flags"
	"github.com/ogzhanolguncu/cpgo/internal/options"
)

// completion describes cp to the shell completer. Every alias in the
// grammar is offered; enumeration values come from the same sets the
// parser resolves against.
func completion() *complete.Command {
	values := map[flags.ID]complete.Predictor{
		flags.Backup:          predict.Set(backup.Methods("--backup").Names()),
		flags.Preserve:        predict.Set(options.PreserveAttrs.Names()),
		flags.NoPreserve:      predict.Set(options.NoPreserveAttrs.Names()),
		flags.Reflink:         predict.Set(options.ReflinkModes.Names()),
		flags.Sparse:          predict.Set(options.SparseModes.Names()),
		flags.Update:          predict.Set(options.UpdateModes.Names()),
		flags.TargetDirectory: predict.Dirs("*"),
		flags.Suffix:          predict.Something,
		flags.Context:         predict.Something,
	}

	cmd := &complete.Command{
		Flags: make(map[string]complete.Predictor),
		Args:  predict.Files("*"),
	}
	for _, s := range flags.CP.Specs() {
		p, ok := values[s.ID]
		if !ok {
			p = predict.Nothing
		}
		for _, a := range s.Aliases {
			cmd.Flags[a] = p
		}
	}
	return cmd
}
