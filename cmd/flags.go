package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
)

// pivotValue is a pflag.Value that parses a pivot name on Set, so bad
// values are rejected while flags are parsed.
type pivotValue struct {
	p   *pivot.Pivot
	set bool
}

var _ pflag.Value = (*pivotValue)(nil)

func newPivotValue(p *pivot.Pivot) *pivotValue {
	return &pivotValue{p: p}
}

func (v *pivotValue) String() string {
	if v.p == nil {
		return ""
	}
	return v.p.String()
}

func (v *pivotValue) Set(s string) error {
	p, err := pivot.Parse(s)
	if err != nil {
		return err
	}
	*v.p = p
	v.set = true
	return nil
}

func (v *pivotValue) Type() string { return "pivot" }

// addPivotFlag registers --pivot on fs. The returned value reports whether
// the flag was given; when it was not, callers use the board default.
func addPivotFlag(fs *pflag.FlagSet, p *pivot.Pivot) *pivotValue {
	v := newPivotValue(p)
	fs.VarP(v, "pivot", "p", "column pivot ("+strings.Join(pivot.Names(), ", ")+")")
	return v
}

// normalizeAliases maps alternate flag spellings onto canonical names.
func normalizeAliases(aliases map[string]string) func(*pflag.FlagSet, string) pflag.NormalizedName {
	return func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		return pflag.NormalizedName(name)
	}
}
