// Package provenance records where each merged state value came from.
package provenance

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/errors"
)

// Source identifies the origin of a state value.
type Source string

// Sources of merged state values.
const (
	SourcePrevious  Source = "previous"  // kept from the previous turn
	SourceGenerated Source = "generated" // written by the new generation
	SourceLive      Source = "live"      // written by user interaction
)

// Provenance tracks the origin of one state value.
type Provenance struct {
	Source        Source    `yaml:"source" json:"source"`
	Path          string    `yaml:"path" json:"path"`
	Value         any       `yaml:"value,omitempty" json:"value,omitempty"`
	Timestamp     time.Time `yaml:"timestamp" json:"timestamp"`
	Reason        string    `yaml:"reason,omitempty" json:"reason,omitempty"`
	PreviousValue any       `yaml:"previous_value,omitempty" json:"previous_value,omitempty"`
}

// Map tracks provenance per state path.
type Map map[string][]Provenance

// Tracker manages provenance tracking during state merges.
type Tracker interface {
	// Track records provenance for a state path
	Track(path string, history Provenance)

	// FindByPath retrieves provenance for a specific path
	FindByPath(path string) []Provenance

	// FindByPrefix retrieves provenance for every path under prefix
	FindByPrefix(prefix string) map[string][]Provenance

	// Current returns the latest provenance of every path
	Current() map[string]Provenance

	// Map returns the complete provenance map
	Map() Map

	// Enabled reports whether tracking is on
	Enabled() bool

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records provenance for a path.
func (p *tracker) Track(path string, history Provenance) {
	if p == nil || !p.enabled {
		return
	}
	history.Path = path
	if history.Timestamp.IsZero() {
		history.Timestamp = time.Now()
	}
	p.provenance[path] = append(p.provenance[path], history)
}

// FindByPath retrieves provenance for a specific path.
func (p *tracker) FindByPath(path string) []Provenance {
	if !p.enabled {
		return nil
	}
	return p.provenance[path]
}

// FindByPrefix retrieves provenance for every path equal to or under prefix.
func (p *tracker) FindByPrefix(prefix string) map[string][]Provenance {
	if !p.enabled {
		return nil
	}
	prefix = strings.TrimSuffix(prefix, "/")
	result := make(map[string][]Provenance)
	for path, info := range p.provenance {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			result[path] = info
		}
	}
	return result
}

// Current returns the most recent record of every path.
func (p *tracker) Current() map[string]Provenance {
	if !p.enabled {
		return nil
	}
	result := make(map[string]Provenance, len(p.provenance))
	for path, info := range p.provenance {
		if len(info) > 0 {
			result[path] = info[len(info)-1]
		}
	}
	return result
}

// Map returns the complete provenance map.
func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}

	// Return a copy to prevent external modification
	result := make(Map)
	for k, v := range p.provenance {
		result[k] = append([]Provenance{}, v...)
	}
	return result
}

// Enabled reports whether tracking is on.
func (p *tracker) Enabled() bool {
	return p != nil && p.enabled
}

// Clear removes all provenance data.
func (p *tracker) Clear() {
	p.provenance = make(Map)
}

// Report summarizes provenance by source.
type Report struct {
	Paths    map[string]Provenance // latest record per path
	BySource map[Source][]string   // sorted paths per source
}

// GenerateReport creates a report from a Map.
func GenerateReport(provenance Map) *Report {
	report := &Report{
		Paths:    make(map[string]Provenance),
		BySource: make(map[Source][]string),
	}
	for path, infos := range provenance {
		if len(infos) == 0 {
			continue
		}
		latest := infos[0]
		for _, info := range infos[1:] {
			if !info.Timestamp.Before(latest.Timestamp) {
				latest = info
			}
		}
		report.Paths[path] = latest
		report.BySource[latest.Source] = append(report.BySource[latest.Source], path)
	}
	for source := range report.BySource {
		sort.Strings(report.BySource[source])
	}
	return report
}

// String generates a string representation of the report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("State Provenance\n")
	sb.WriteString("================\n\n")

	paths := make([]string, 0, len(r.Paths))
	for path := range r.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		info := r.Paths[path]
		sb.WriteString(fmt.Sprintf("%s: %v (from %s)\n", path, info.Value, info.Source))
		if info.PreviousValue != nil {
			sb.WriteString(fmt.Sprintf("  was: %v\n", info.PreviousValue))
		}
	}
	return sb.String()
}

// File represents a provenance file stored on disk.
type File struct {
	Provenance Map `yaml:"provenance"`
}

// Load reads provenance data from a YAML file.
// Returns nil, nil if the file doesn't exist (not an error).
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &pf, nil
}

// Save writes provenance data to a YAML file.
func Save(path string, provenance Map) error {
	data, err := yaml.Marshal(File{Provenance: provenance})
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
