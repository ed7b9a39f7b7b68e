// Package transform maps applicant records onto the provider's evaluation
// schema. Each provider API version gets its own Adapter so field-name drift
// between versions stays isolated from the gateway.
package transform

import (
	"errors"
	"fmt"
	"sort"
)

// Version identifies a provider payload schema.
type Version string

const (
	// V1 is the legacy schema: SSN travels as document_ssn and no country code is sent.
	V1 Version = "v1"
	// V2 is the current schema: social_security_number plus address_country_code.
	V2 Version = "v2"

	// DefaultVersion is used when configuration does not pin one.
	DefaultVersion = V2
)

// ErrUnknownVersion is returned by ForVersion for unsupported schema versions.
var ErrUnknownVersion = errors.New("unknown provider schema version")

// Payload is the provider request body. Every value is a string; fields with
// no input are sent as "" rather than omitted or null.
type Payload map[string]string

// Adapter converts an applicant record into one provider schema version.
// Adapters never validate and never fail: missing input defaults to "".
type Adapter interface {
	Version() Version
	Transform(rec Record) Payload
}

var adapters = map[Version]Adapter{
	V1: v1Adapter{},
	V2: v2Adapter{},
}

// ForVersion returns the adapter for v. An empty version selects DefaultVersion.
func ForVersion(v Version) (Adapter, error) {
	if v == "" {
		v = DefaultVersion
	}
	a, ok := adapters[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, v)
	}
	return a, nil
}

// Versions lists every supported schema version in ascending order.
func Versions() []Version {
	out := make([]Version, 0, len(adapters))
	for v := range adapters {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
