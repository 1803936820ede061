// FILE: lixenwraith/bundleconf/reserved.go
package bundleconf

// Reserved words are compared against lower-cased input. An app name must be
// usable as a module or package identifier in every language the packaged
// app can be embedded in, and as a Windows file name.

// pythonKeywords is the Python keyword list
var pythonKeywords = setOf(
	"False", "None", "True",
	"and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del",
	"elif", "else", "except", "finally", "for",
	"from", "global", "if", "import", "in",
	"is", "lambda", "nonlocal", "not", "or",
	"pass", "raise", "return", "try", "while",
	"with", "yield",
)

// javascriptReservedWords are the reserved keywords as of ECMAScript 2015
var javascriptReservedWords = setOf(
	"break", "case", "catch", "class", "const",
	"continue", "debugger", "default", "delete", "do",
	"else", "export", "extends", "finally", "for",
	"function", "if", "import", "in", "instanceof",
	"new", "return", "super", "switch", "this",
	"throw", "try", "typeof", "var", "void",
	"while", "with", "yield",
)

var javaReservedWords = setOf(
	// Keywords
	"abstract", "assert", "boolean", "break", "byte",
	"case", "catch", "char", "class", "const",
	"continue", "default", "do", "double", "else",
	"enum", "extends", "final", "finally", "float",
	"for", "goto", "if", "implements", "import",
	"instanceof", "int", "interface", "long", "native",
	"new", "package", "private", "protected", "public",
	"return", "short", "static", "super", "switch",
	"synchronized", "this", "throw", "throws", "transient",
	"try", "void", "volatile", "while",

	// Reserved identifiers
	"exports", "module", "non-sealed", "open", "opens",
	"permits", "provides", "record", "requires", "sealed",
	"to", "transitive", "uses", "var", "with",
	"yield",

	// Reserved literals
	"true", "false", "null",

	// Unused, but reserved
	"strictfp",
)

// windowsReservedWords are device names that cannot be used as file names
var windowsReservedWords = setOf(
	"con", "prn", "aux", "nul",
	"com0", "com1", "com2", "com3", "com4",
	"com5", "com6", "com7", "com8", "com9",
	"lpt0", "lpt1", "lpt2", "lpt3", "lpt4",
	"lpt5", "lpt6", "lpt7", "lpt8", "lpt9",
)

var nonPythonReservedWords = unionOf(
	javascriptReservedWords,
	javaReservedWords,
	windowsReservedWords,
)

// bundleAllowedReserved are two-letter country codes that are valid bundle
// segments even though they are keywords. "do" belongs here too but breaks
// the Android build tooling.
var bundleAllowedReserved = setOf("in", "is")

func setOf(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func unionOf(sets ...map[string]struct{}) map[string]struct{} {
	u := make(map[string]struct{})
	for _, s := range sets {
		for w := range s {
			u[w] = struct{}{}
		}
	}
	return u
}
