package coverage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

func requiredCases() []coverage.TestCase {
	return []coverage.TestCase{
		{Name: "test_cpu", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
		{Name: "test_host", Module: "host.host_test", Location: "tests/observers/host/host_test.py"},
		{Name: "test_startup", Module: "basic.startup_test", Location: "tests/basic/startup_test.py"},
		{Name: "test_etcd", Module: "config_sources.etcd_test", Location: "tests/config_sources/etcd_test.py"},
		{Name: "test_rpm", Module: "packaging.rpm_test", Location: "tests/packaging/rpm_test.py"},
	}
}

func TestCaseDetails(t *testing.T) {
	rules := coverage.DefaultRules()

	tests := []struct {
		name       string
		tc         coverage.TestCase
		wantPkg    string
		wantModule string
		wantName   string
	}{
		{
			name:       "should take the segment after the tests marker",
			tc:         coverage.TestCase{Name: "test_cpu", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
			wantPkg:    "monitors",
			wantModule: "cpu",
			wantName:   "cpu",
		},
		{
			name:       "should use the first segment when no marker is present",
			tc:         coverage.TestCase{Name: "test_rpm", Module: "rpm_test", Location: "packaging/rpm_test.py"},
			wantPkg:    "packaging",
			wantModule: "rpm",
			wantName:   "rpm",
		},
		{
			name:       "should take the second dotted module segment",
			tc:         coverage.TestCase{Name: "test_x", Module: "tests.monitors.cpu_test", Location: "repo/tests/monitors/cpu_test.py"},
			wantPkg:    "monitors",
			wantModule: "monitors",
			wantName:   "x",
		},
		{
			name:       "should keep parameter brackets in the name",
			tc:         coverage.TestCase{Name: "test_cpu[per_core]", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
			wantPkg:    "monitors",
			wantModule: "cpu",
			wantName:   "cpu[per_core]",
		},
		{
			name:       "should only strip a leading test prefix",
			tc:         coverage.TestCase{Name: "check_test_", Module: "cpu.cpu_tests", Location: "tests/monitors/cpu_tests.py"},
			wantPkg:    "monitors",
			wantModule: "cpu_tests",
			wantName:   "check_test_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, module, name := CaseDetails(tt.tc, rules)

			assert.Equal(t, tt.wantPkg, pkg)
			assert.Equal(t, tt.wantModule, module)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestCollect(t *testing.T) {
	rules := coverage.DefaultRules()

	t.Run("should group parameterized cases by base name", func(t *testing.T) {
		cases := append(requiredCases(),
			coverage.TestCase{Name: "test_cpu_per_core[True]", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
			coverage.TestCase{Name: "test_cpu_per_core[False]", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
			coverage.TestCase{Name: "test_cpu_empty[]", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
		)

		inv, err := Collect(cases, rules)
		require.NoError(t, err)

		pkg, ok := inv.Package("monitors")
		require.True(t, ok)
		modules := pkg.Modules()
		require.Len(t, modules, 1)
		cpu := modules[0]

		general, ok := cpu.Group("general")
		require.True(t, ok)
		assert.Equal(t, []string{"cpu"}, general.Labels)

		perCore, ok := cpu.Group("cpu_per_core")
		require.True(t, ok)
		assert.Equal(t, []string{"True", "False"}, perCore.Labels)

		empty, ok := cpu.Group("cpu_empty")
		require.True(t, ok)
		assert.Equal(t, []string{""}, empty.Labels)
	})

	t.Run("should attribute every case to exactly one group", func(t *testing.T) {
		cases := append(requiredCases(),
			coverage.TestCase{Name: "test_a[1]", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
			coverage.TestCase{Name: "test_a[2]", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
			coverage.TestCase{Name: "test_b", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
		)

		inv, err := Collect(cases, rules)
		require.NoError(t, err)

		perModule := map[string]int{}
		for _, tc := range cases {
			pkg, module, _ := CaseDetails(tc, rules)
			perModule[pkg+"/"+module]++
		}

		total := 0
		for _, pkgName := range inv.PackageNames() {
			pkg, _ := inv.Package(pkgName)
			for _, m := range pkg.Modules() {
				assert.Equal(t, perModule[pkgName+"/"+m.Name], m.CaseCount(), "module %s/%s", pkgName, m.Name)
				total += m.CaseCount()
			}
		}
		assert.Equal(t, len(cases), total)
	})

	t.Run("should trim closing brackets from labels", func(t *testing.T) {
		cases := append(requiredCases(),
			coverage.TestCase{Name: "test_nested[a]]", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
		)

		inv, err := Collect(cases, rules)
		require.NoError(t, err)

		pkg, _ := inv.Package("monitors")
		g, ok := pkg.Modules()[0].Group("nested")
		require.True(t, ok)
		assert.Equal(t, []string{"a"}, g.Labels)
	})

	t.Run("should fail when a required category is missing", func(t *testing.T) {
		cases := requiredCases()[:4]

		inv, err := Collect(cases, rules)

		assert.Nil(t, inv)
		require.Error(t, err)
		assert.True(t, errors.Is(err, coverage.ErrInvalidTestLocation))
		assert.Contains(t, err.Error(), "packaging")
	})

	t.Run("should fail on an empty discovery", func(t *testing.T) {
		_, err := Collect(nil, rules)

		assert.ErrorIs(t, err, coverage.ErrInvalidTestLocation)
	})
}
