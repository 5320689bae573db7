package coverage

import (
	"fmt"
	"strings"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

// Collect groups discovered cases into a test inventory and checks that every
// required package is present.
func Collect(cases []coverage.TestCase, rules coverage.Rules) (*coverage.TestInventory, error) {
	inv := coverage.NewTestInventory()

	for _, tc := range cases {
		pkg, module, name := CaseDetails(tc, rules)
		m := inv.Module(pkg, module, rules.GeneralGroup)

		if base, param, ok := strings.Cut(name, "["); ok {
			m.Append(base, strings.Trim(param, "]"))
			continue
		}
		m.Append(rules.GeneralGroup, name)
	}

	var missing []string
	for _, required := range rules.RequiredPackages() {
		if _, ok := inv.Package(required); !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing test categories %v", coverage.ErrInvalidTestLocation, missing)
	}

	return inv, nil
}

// CaseDetails derives the package, module and name a case is filed under.
//
// The package is the first path segment after the tests marker in the case location,
// the module is the second dotted segment of the module identifier without its test
// suffix, and the name drops the test prefix.
func CaseDetails(tc coverage.TestCase, rules coverage.Rules) (pkg, module, name string) {
	locParts := strings.Split(tc.Location, rules.TestsMarker)
	idx := 0
	if len(locParts) > 1 {
		idx = 1
	}
	pkg, _, _ = strings.Cut(locParts[idx], "/")

	modParts := strings.Split(tc.Module, ".")
	module = modParts[0]
	if len(modParts) > 1 {
		module = modParts[1]
	}
	if rules.ModuleSuffix != "" {
		module = strings.TrimSuffix(module, rules.ModuleSuffix)
	}

	name = tc.Name
	if rules.NamePrefix != "" {
		name = strings.TrimPrefix(name, rules.NamePrefix)
	}

	return pkg, module, name
}
