// FILE: lixenwraith/bundleconf/validate.go
package bundleconf

import (
	"regexp"
	"strings"
)

var (
	// pep508NameRe is the basic naming restriction for distributable packages
	pep508NameRe = regexp.MustCompile(`(?i)^([A-Z0-9]|[A-Z0-9][A-Z0-9._-]*[A-Z0-9])$`)

	bundleRe = regexp.MustCompile(`^[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)+$`)
)

// IsValidPEP508Name reports whether name follows the package naming rules:
// letters, digits, '.', '-' and '_', starting and ending alphanumeric.
func IsValidPEP508Name(name string) bool {
	return pep508NameRe.MatchString(name)
}

// IsReservedKeyword reports whether name, lower-cased, is a keyword in any
// of the target languages or a reserved Windows device name.
func IsReservedKeyword(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := pythonKeywords[lower]; ok {
		return true
	}
	_, ok := nonPythonReservedWords[lower]
	return ok
}

// IsValidAppName reports whether name can be used as an app name
func IsValidAppName(name string) bool {
	return !IsReservedKeyword(name) && IsValidPEP508Name(name)
}

// IsValidBundleIdentifier reports whether bundle is a reversed domain name
// with at least two segments, none of which is a reserved word.
func IsValidBundleIdentifier(bundle string) bool {
	if !bundleRe.MatchString(bundle) {
		return false
	}

	for _, part := range strings.Split(bundle, ".") {
		if _, allowed := bundleAllowedReserved[part]; allowed {
			continue
		}
		if IsReservedKeyword(part) {
			return false
		}
	}

	return true
}
