package spec

import "fmt"

// Fix records one correction a pipeline pass applied to a tree.
type Fix struct {
	Pass   string `json:"pass" yaml:"pass"`
	Rule   string `json:"rule" yaml:"rule"`
	Target string `json:"target" yaml:"target"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// String implements fmt.Stringer.
func (f Fix) String() string {
	if f.Detail == "" {
		return fmt.Sprintf("%s/%s %s", f.Pass, f.Rule, f.Target)
	}
	return fmt.Sprintf("%s/%s %s: %s", f.Pass, f.Rule, f.Target, f.Detail)
}

// Report lists the fixes of one pass in the order they were applied.
type Report struct {
	Pass  string `json:"pass" yaml:"pass"`
	Fixes []Fix  `json:"fixes" yaml:"fixes"`
}

// NewReport creates an empty report for a pass.
func NewReport(pass string) *Report {
	return &Report{Pass: pass, Fixes: []Fix{}}
}

// Add records a fix.
func (r *Report) Add(rule, target, detail string) {
	r.Fixes = append(r.Fixes, Fix{Pass: r.Pass, Rule: rule, Target: target, Detail: detail})
}

// Addf records a fix with a formatted detail.
func (r *Report) Addf(rule, target, format string, args ...any) {
	r.Add(rule, target, fmt.Sprintf(format, args...))
}

// Len returns the number of fixes.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Fixes)
}

// Empty reports whether no fix was applied.
func (r *Report) Empty() bool {
	return r.Len() == 0
}

// ByRule returns the fixes recorded under rule.
func (r *Report) ByRule(rule string) []Fix {
	if r == nil {
		return nil
	}
	var out []Fix
	for _, f := range r.Fixes {
		if f.Rule == rule {
			out = append(out, f)
		}
	}
	return out
}
