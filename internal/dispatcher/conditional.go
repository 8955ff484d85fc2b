package dispatcher

import (
	"context"
	"regexp"

	"github.com/dshills/browsermotion/internal/keybind"
)

// conditional dispatches the first condition whose pattern matches path.
// Entries with a bad pattern, a nested conditional, an unknown sub-action or
// a missing field are skipped. Nothing matching is a silent no-op.
func (d *Dispatcher) conditional(ctx context.Context, a keybind.Action, path string) Result {
	for i, cond := range a.Conditions {
		re, err := d.compile(cond.PathPattern)
		if err != nil {
			d.logger.Warn("invalid conditional pattern", "index", i, "pattern", cond.PathPattern, "err", err)
			continue
		}
		if !re.MatchString(path) {
			continue
		}

		sub, ok := cond.Concrete(a.Description)
		if !ok {
			d.logger.Warn("invalid conditional action", "index", i, "pattern", cond.PathPattern, "action", cond.Action)
			continue
		}
		return d.execute(ctx, sub)
	}
	return NoOp(a, "no condition matches %s", path)
}

func (d *Dispatcher) compile(pattern string) (*regexp.Regexp, error) {
	if v, ok := d.patterns.Load(pattern); ok {
		e := v.(patternEntry)
		return e.re, e.err
	}
	re, err := regexp.Compile(pattern)
	d.patterns.Store(pattern, patternEntry{re: re, err: err})
	return re, err
}
