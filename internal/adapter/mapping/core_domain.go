package mapping

import (
	"path"
	"strings"

	"github.com/specvital/core/pkg/domain"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

// ConvertCoreToTestCases flattens a specvital/core inventory into test cases.
// rootName prefixes every location so paths read like "tests/monitors/cpu/cpu_test.py".
func ConvertCoreToTestCases(coreInv *domain.Inventory, rootName string) []coverage.TestCase {
	if coreInv == nil {
		return nil
	}

	cases := make([]coverage.TestCase, 0, len(coreInv.Files))
	for _, coreFile := range coreInv.Files {
		cases = append(cases, convertCoreTestFile(coreFile, rootName)...)
	}
	return cases
}

func convertCoreTestFile(coreFile domain.TestFile, rootName string) []coverage.TestCase {
	filePath := strings.ReplaceAll(coreFile.Path, "\\", "/")
	location := path.Join(rootName, filePath)
	module := ModuleIdentifier(filePath)

	var cases []coverage.TestCase
	for _, coreTest := range coreFile.Tests {
		cases = append(cases, convertCoreTest(coreTest, module, location))
	}
	for _, coreSuite := range coreFile.Suites {
		cases = append(cases, convertCoreTestSuite(coreSuite, module, location)...)
	}
	return cases
}

func convertCoreTestSuite(coreSuite domain.TestSuite, module, location string) []coverage.TestCase {
	var cases []coverage.TestCase
	for _, coreTest := range coreSuite.Tests {
		cases = append(cases, convertCoreTest(coreTest, module, location))
	}
	for _, nested := range coreSuite.Suites {
		cases = append(cases, convertCoreTestSuite(nested, module, location)...)
	}
	return cases
}

func convertCoreTest(coreTest domain.Test, module, location string) coverage.TestCase {
	return coverage.TestCase{
		Name:     coreTest.Name,
		Module:   module,
		Location: location,
	}
}

// ModuleIdentifier names a test file the way an importer would from its parent
// directory: "monitors/cpu/cpu_test.py" becomes "cpu.cpu_test".
func ModuleIdentifier(filePath string) string {
	filePath = strings.ReplaceAll(filePath, "\\", "/")
	base := path.Base(filePath)
	stem := strings.TrimSuffix(base, path.Ext(base))

	dir := path.Dir(filePath)
	if dir == "." || dir == "/" {
		return stem
	}
	return path.Base(dir) + "." + stem
}
