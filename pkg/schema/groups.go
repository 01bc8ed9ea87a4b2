package schema

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// GroupSet is an immutable set of canonical platform group names.
type GroupSet struct {
	names map[string]struct{}
}

// NewGroupSet builds a set from a list of group names.
func NewGroupSet(names []string) *GroupSet {
	s := &GroupSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set. A nil set contains nothing.
func (s *GroupSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the set.
func (s *GroupSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the group names in sorted order.
func (s *GroupSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// GroupsDocument is the versioned groups configuration. Funded is the set of
// group names eligible for the approved funded classification; Keep is the
// set of platform groups carried over into the target schema.
type GroupsDocument struct {
	Version string   `yaml:"version"`
	Funded  []string `yaml:"funded"`
	Keep    []string `yaml:"keep"`
}

// defaultFundedGroups mirrors the funded group list shipped with the legacy
// exporter. Used when no groups document is configured.
var defaultFundedGroups = []string{
	`demo\Nostro\U-FTF-1-A`,
	`demo\Nostro\U-FTF-1-B`,
	`demo\Nostro\U-COF-1-A`,
	`demo\Nostro\U-COF-1-B`,
	`demo\Nostro\U-SSF-1-A`,
	`demo\Nostro\U-SSF-1-B`,
	`demo\Nostro\U-SAF-1-A`,
	`demo\Nostro\U-SAF-1-B`,
	`demo\Nostro\U-DSF-1-A`,
	`demo\Nostro\U-DSF-1-B`,
	`demo\Nostro\U-DAF-1-A`,
	`demo\Nostro\U-DAF-1-B`,
	`demo\Nostro\U-TSF-1-A`,
	`demo\Nostro\U-TSF-1-B`,
	`demo\Nostro\U-TAF-1-A`,
	`demo\Nostro\U-TAF-1-B`,
}

// defaultKeepGroups is the legacy carry-over list for the platform groups
// entity. All funded groups are kept, plus the evolution-phase groups.
var defaultKeepGroups = []string{
	`demo\Nostro\U-SST-1-B`,
	`demo\Nostro\U-SAG-1-B`,
	`demo\Nostro\U-DST-1-B`,
	`demo\Nostro\U-DST-2-B`,
	`demo\Nostro\U-DAG-1-B`,
	`demo\Nostro\U-DAG-2-B`,
	`demo\Nostro\U-TPS-1-B`,
	`demo\Nostro\U-TPS-2-B`,
	`demo\Nostro\U-TPS-3-B`,
	`demo\Nostro\U-TPA-1-B`,
	`demo\Nostro\U-TPA-2-B`,
	`demo\Nostro\U-TPA-3-B`,
	`demo\Nostro\U-FTE-1-B`,
	`demo\Nostro\U-FTE-2-B`,
	`demo\Nostro\U-FTE-3-B`,
	`demo\Nostro\U-FTF-1-B`,
	`demo\Nostro\U-FTF-1-A`,
	`demo\Nostro\U-COF-1-B`,
	`demo\Nostro\U-COP-1-B`,
	`demo\Nostro\U-SSF-1-B`,
	`demo\Nostro\U-SSF-1-A`,
	`demo\Nostro\U-SAF-1-B`,
	`demo\Nostro\U-SAF-1-A`,
	`demo\Nostro\U-DSF-1-B`,
	`demo\Nostro\U-DSF-1-A`,
	`demo\Nostro\U-DAF-1-B`,
	`demo\Nostro\U-DAF-1-A`,
	`demo\Nostro\U-TSF-1-B`,
	`demo\Nostro\U-TSF-1-A`,
	`demo\Nostro\U-TAF-1-B`,
	`demo\Nostro\U-TAF-1-A`,
}

// DefaultGroupsDocument returns the built-in groups configuration.
func DefaultGroupsDocument() *GroupsDocument {
	return &GroupsDocument{
		Version: "builtin",
		Funded:  append([]string(nil), defaultFundedGroups...),
		Keep:    append([]string(nil), defaultKeepGroups...),
	}
}

// LoadGroupsDocument reads the versioned groups configuration from a YAML
// file. A missing file falls back to the built-in document so a batch can
// run without external configuration; found reports which happened.
func LoadGroupsDocument(path string) (doc *GroupsDocument, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGroupsDocument(), false, nil
		}
		return nil, false, fmt.Errorf("read groups document %s: %w", path, err)
	}

	doc = &GroupsDocument{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, false, fmt.Errorf("parse groups document %s: %w", path, err)
	}
	if doc.Version == "" {
		return nil, false, fmt.Errorf("groups document %s: missing version", path)
	}
	return doc, true, nil
}

// FundedSet returns the funded group names as a set.
func (d *GroupsDocument) FundedSet() *GroupSet {
	return NewGroupSet(d.Funded)
}

// KeepSet returns the carry-over group names as a set.
func (d *GroupsDocument) KeepSet() *GroupSet {
	return NewGroupSet(d.Keep)
}
