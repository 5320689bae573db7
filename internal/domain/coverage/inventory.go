package coverage

import (
	"encoding/json"
	"slices"
)

// TestCase is a discovered test, described without running it.
type TestCase struct {
	// Name is the case name as reported by discovery, e.g. "test_cpu[default]".
	Name string
	// Module is the dotted module identifier, e.g. "cpu.cpu_test".
	Module string
	// Location is the slash separated path of the enclosing node, e.g. "tests/monitors/cpu/cpu_test.py".
	Location string
}

// TestInventory groups case labels by package, module and test group.
// Packages, modules and groups keep their insertion order.
type TestInventory struct {
	packages []*Package
	index    map[string]int
}

// Package holds the modules discovered under one feature directory.
type Package struct {
	Name    string
	modules []*Module
	index   map[string]int
}

// Module holds the test groups of one test file.
type Module struct {
	Name   string
	groups []*Group
	index  map[string]int
}

// Group holds the case labels of one test function.
type Group struct {
	Name   string
	Labels []string
}

// NewTestInventory creates an empty TestInventory.
func NewTestInventory() *TestInventory {
	return &TestInventory{index: map[string]int{}}
}

// Module returns the module of pkg named name, creating the package and the module
// on first use. A new module starts with an empty group named generalGroup.
func (inv *TestInventory) Module(pkg, name, generalGroup string) *Module {
	p := inv.ensurePackage(pkg)
	if i, ok := p.index[name]; ok {
		return p.modules[i]
	}
	m := &Module{Name: name, index: map[string]int{}}
	m.group(generalGroup)
	p.index[name] = len(p.modules)
	p.modules = append(p.modules, m)
	return m
}

func (inv *TestInventory) ensurePackage(name string) *Package {
	if i, ok := inv.index[name]; ok {
		return inv.packages[i]
	}
	p := &Package{Name: name, index: map[string]int{}}
	inv.index[name] = len(inv.packages)
	inv.packages = append(inv.packages, p)
	return p
}

// Package returns the package named name.
func (inv *TestInventory) Package(name string) (*Package, bool) {
	i, ok := inv.index[name]
	if !ok {
		return nil, false
	}
	return inv.packages[i], true
}

// PackageNames returns package names in discovery order.
func (inv *TestInventory) PackageNames() []string {
	names := make([]string, 0, len(inv.packages))
	for _, p := range inv.packages {
		names = append(names, p.Name)
	}
	return names
}

// ModuleNames returns the module keys of pkg, or nil when pkg is absent.
func (inv *TestInventory) ModuleNames(pkg string) []string {
	p, ok := inv.Package(pkg)
	if !ok {
		return nil
	}
	return p.ModuleNames()
}

func (inv *TestInventory) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]map[string][]string, len(inv.packages))
	for _, p := range inv.packages {
		mods := make(map[string]map[string][]string, len(p.modules))
		for _, m := range p.modules {
			groups := make(map[string][]string, len(m.groups))
			for _, g := range m.groups {
				groups[g.Name] = g.Labels
			}
			mods[m.Name] = groups
		}
		out[p.Name] = mods
	}
	return json.Marshal(out)
}

// ModuleNames returns module keys in discovery order.
func (p *Package) ModuleNames() []string {
	names := make([]string, 0, len(p.modules))
	for _, m := range p.modules {
		names = append(names, m.Name)
	}
	return names
}

// Modules returns a copy of the module list.
func (p *Package) Modules() []*Module {
	return slices.Clone(p.modules)
}

// Append adds label to the group named group, creating the group if needed.
func (m *Module) Append(group, label string) {
	g := m.group(group)
	g.Labels = append(g.Labels, label)
}

func (m *Module) group(name string) *Group {
	if i, ok := m.index[name]; ok {
		return m.groups[i]
	}
	g := &Group{Name: name, Labels: []string{}}
	m.index[name] = len(m.groups)
	m.groups = append(m.groups, g)
	return g
}

// Group returns the group named name.
func (m *Module) Group(name string) (*Group, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.groups[i], true
}

// Groups returns a copy of the group list, general group first.
func (m *Module) Groups() []*Group {
	return slices.Clone(m.groups)
}

// CaseCount is the number of labels across all groups.
func (m *Module) CaseCount() int {
	n := 0
	for _, g := range m.groups {
		n += len(g.Labels)
	}
	return n
}
