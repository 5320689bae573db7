package mapping

import (
	"testing"

	"github.com/specvital/core/pkg/domain"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

func TestConvertCoreToTestCases_Nil(t *testing.T) {
	result := ConvertCoreToTestCases(nil, "tests")
	if result != nil {
		t.Errorf("expected nil for nil input, got %v", result)
	}
}

func TestConvertCoreToTestCases_Empty(t *testing.T) {
	coreInv := &domain.Inventory{
		Files:    []domain.TestFile{},
		RootPath: "/repo/tests",
	}

	result := ConvertCoreToTestCases(coreInv, "tests")
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if len(result) != 0 {
		t.Errorf("expected no cases, got %d", len(result))
	}
}

func TestConvertCoreToTestCases_FlattensSuites(t *testing.T) {
	coreInv := &domain.Inventory{
		RootPath: "/repo/tests",
		Files: []domain.TestFile{
			{
				Path:      "monitors/cpu/cpu_test.py",
				Framework: "pytest",
				Tests: []domain.Test{
					{Name: "test_cpu", Location: domain.Location{StartLine: 1, EndLine: 5}},
				},
				Suites: []domain.TestSuite{
					{
						Name: "TestPerCore",
						Tests: []domain.Test{
							{Name: "test_per_core"},
						},
						Suites: []domain.TestSuite{
							{
								Name:  "TestNested",
								Tests: []domain.Test{{Name: "test_nested"}},
							},
						},
					},
				},
			},
			{
				Path:  "packaging\\rpm_test.py",
				Tests: []domain.Test{{Name: "test_rpm"}},
			},
		},
	}

	got := ConvertCoreToTestCases(coreInv, "tests")

	want := []coverage.TestCase{
		{Name: "test_cpu", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
		{Name: "test_per_core", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
		{Name: "test_nested", Module: "cpu.cpu_test", Location: "tests/monitors/cpu/cpu_test.py"},
		{Name: "test_rpm", Module: "packaging.rpm_test", Location: "tests/packaging/rpm_test.py"},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d cases, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("case %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestModuleIdentifier(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "monitors/cpu/cpu_test.py", expected: "cpu.cpu_test"},
		{path: "basic_test.py", expected: "basic_test"},
		{path: "a/b/c/d_test.py", expected: "c.d_test"},
		{path: "config_sources\\etcd_test.py", expected: "config_sources.etcd_test"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ModuleIdentifier(tt.path); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
