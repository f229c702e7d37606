// Package versioncode derives Android version codes from dotted version strings.
//
// The arithmetic matches the Groovy block injected into build.gradle:
// major*10000 + minor*100 + patch.
package versioncode

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	MajorWeight = 10000
	MinorWeight = 100
	PatchWeight = 1

	// MaxCode is the largest versionCode Google Play accepts.
	MaxCode = 2100000000
)

var (
	ErrMalformedVersion  = errors.New("malformed version")
	ErrComponentOverflow = errors.New("version component out of range")
	ErrCodeTooLarge      = errors.New("version code too large")
)

// Parse parses a strict major.minor.patch version. Pre-release and build
// suffixes are rejected since the injected Groovy cannot convert them.
func Parse(version string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrMalformedVersion, version, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return nil, fmt.Errorf("%w %q: pre-release and build metadata are not supported", ErrMalformedVersion, version)
	}
	return v, nil
}

// Compute returns the version code for version.
func Compute(version string) (int, error) {
	v, err := Parse(version)
	if err != nil {
		return 0, err
	}
	return FromVersion(v)
}

// FromVersion returns the version code for an already parsed version.
func FromVersion(v *semver.Version) (int, error) {
	if v.Minor() >= MajorWeight/MinorWeight {
		return 0, fmt.Errorf("%w: minor %d must be below %d", ErrComponentOverflow, v.Minor(), MajorWeight/MinorWeight)
	}
	if v.Patch() >= MinorWeight/PatchWeight {
		return 0, fmt.Errorf("%w: patch %d must be below %d", ErrComponentOverflow, v.Patch(), MinorWeight/PatchWeight)
	}
	if v.Major() > MaxCode/MajorWeight {
		return 0, fmt.Errorf("%w: major %d exceeds %d", ErrCodeTooLarge, v.Major(), MaxCode/MajorWeight)
	}

	code := v.Major()*MajorWeight + v.Minor()*MinorWeight + v.Patch()*PatchWeight
	if code > MaxCode {
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrCodeTooLarge, code, MaxCode)
	}
	return int(code), nil
}

// Bump returns the next version. level is "major", "minor", "patch" or an
// explicit version. The result is validated with Compute.
func Bump(current, level string) (string, error) {
	var next semver.Version
	switch level {
	case "major", "minor", "patch":
		v, err := Parse(current)
		if err != nil {
			return "", fmt.Errorf("current version: %w", err)
		}
		switch level {
		case "major":
			next = v.IncMajor()
		case "minor":
			next = v.IncMinor()
		default:
			next = v.IncPatch()
		}
	default:
		v, err := Parse(level)
		if err != nil {
			return "", err
		}
		next = *v
	}

	if _, err := FromVersion(&next); err != nil {
		return "", fmt.Errorf("version %s: %w", next.String(), err)
	}
	return next.String(), nil
}
