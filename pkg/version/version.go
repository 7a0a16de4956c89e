// Package version implements the "<major>.<minor>" compatibility gate applied
// to analysis and results documents.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrMalformed reports a token that does not match "<major>.<minor>".
	ErrMalformed = errors.New("version: malformed compatibility token")
	// ErrUnsupported reports a token requiring a newer compiler.
	ErrUnsupported = errors.New("version: unsupported compatibility token")
)

var tokenPattern = regexp.MustCompile(`^([0-9]+)\.([0-9]+)$`)

// Version is a parsed compatibility token.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Parse reads a "<major>.<minor>" token.
func Parse(token string) (Version, error) {
	match := tokenPattern.FindStringSubmatch(token)
	if match == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, token)
	}
	major, err := strconv.Atoi(match[1])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, token)
	}
	minor, err := strconv.Atoi(match[2])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, token)
	}
	return Version{Major: major, Minor: minor}, nil
}

// Gate accepts tokens with the same major and a minor no greater than its
// own.
type Gate struct {
	Major int
	Minor int
}

// Supported is the gate of this compiler build.
var Supported = Gate{Major: 1, Minor: 1}

// Accepts reports whether v is compatible with the gate.
func (g Gate) Accepts(v Version) bool {
	return v.Major == g.Major && v.Minor <= g.Minor
}

// Check parses token and applies the gate. Parse failures wrap ErrMalformed,
// rejections wrap ErrUnsupported.
func (g Gate) Check(token string) (Version, error) {
	v, err := Parse(token)
	if err != nil {
		return Version{}, err
	}
	if !g.Accepts(v) {
		return v, fmt.Errorf("%w: %s exceeds %d.%d", ErrUnsupported, v, g.Major, g.Minor)
	}
	return v, nil
}
