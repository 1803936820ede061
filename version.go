// FILE: lixenwraith/bundleconf/version.go
package bundleconf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// canonicalVersionRe is the canonical public version pattern (PEP 440) with
// named groups
var canonicalVersionRe = regexp.MustCompile(
	`^((?P<epoch>[1-9][0-9]*)!)?` +
		`(?P<release>(0|[1-9][0-9]*)(\.(0|[1-9][0-9]*))*)` +
		`((?P<pre_tag>a|b|rc)(?P<pre_value>0|[1-9][0-9]*))?` +
		`(\.post(?P<post>0|[1-9][0-9]*))?` +
		`(\.dev(?P<dev>0|[1-9][0-9]*))?$`,
)

// PreRelease is the alpha, beta or release-candidate part of a version
type PreRelease struct {
	Tag   string // "a", "b" or "rc"
	Value int
}

// Version is a parsed canonical version string. Epoch is 0 when absent;
// Pre, Post and Dev are nil when absent.
type Version struct {
	Epoch   int
	Release []int
	Pre     *PreRelease
	Post    *int
	Dev     *int
}

// IsCanonicalVersion reports whether version is a canonical public version
func IsCanonicalVersion(version string) bool {
	return canonicalVersionRe.MatchString(version)
}

// ParseVersion decomposes a canonical version string
func ParseVersion(version string) (*Version, error) {
	match := canonicalVersionRe.FindStringSubmatch(version)
	if match == nil {
		return nil, fmt.Errorf("%q is not a canonical version", version)
	}

	groups := make(map[string]string)
	for i, name := range canonicalVersionRe.SubexpNames() {
		if name != "" {
			groups[name] = match[i]
		}
	}

	v := &Version{}

	if s := groups["epoch"]; s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid epoch in %q: %w", version, err)
		}
		v.Epoch = n
	}

	for _, part := range strings.Split(groups["release"], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid release segment in %q: %w", version, err)
		}
		v.Release = append(v.Release, n)
	}

	if tag := groups["pre_tag"]; tag != "" {
		n, err := strconv.Atoi(groups["pre_value"])
		if err != nil {
			return nil, fmt.Errorf("invalid pre-release in %q: %w", version, err)
		}
		v.Pre = &PreRelease{Tag: tag, Value: n}
	}

	var err error
	if v.Post, err = optionalInt(groups["post"]); err != nil {
		return nil, fmt.Errorf("invalid post-release in %q: %w", version, err)
	}
	if v.Dev, err = optionalInt(groups["dev"]); err != nil {
		return nil, fmt.Errorf("invalid dev-release in %q: %w", version, err)
	}

	return v, nil
}

// String renders the version in canonical form
func (v *Version) String() string {
	var b strings.Builder
	if v.Epoch > 0 {
		fmt.Fprintf(&b, "%d!", v.Epoch)
	}
	for i, n := range v.Release {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(n))
	}
	if v.Pre != nil {
		fmt.Fprintf(&b, "%s%d", v.Pre.Tag, v.Pre.Value)
	}
	if v.Post != nil {
		fmt.Fprintf(&b, ".post%d", *v.Post)
	}
	if v.Dev != nil {
		fmt.Fprintf(&b, ".dev%d", *v.Dev)
	}
	return b.String()
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
