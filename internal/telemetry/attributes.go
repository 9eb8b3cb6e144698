// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by spans across the service.
const (
	// Source attributes
	SourceKindKey   = "source.kind"
	SourceObjectKey = "source.object"
	SourceBytesKey  = "source.bytes"
	SourceMirrorKey = "source.from_mirror"

	// Snapshot attributes
	SnapshotGenerationKey = "snapshot.generation"
	SnapshotRowsKey       = "snapshot.rows"
	SnapshotStaleKey      = "snapshot.stale"

	// Profile attributes
	ProfileCountryKey = "profile.country"
	ProfileViewKey    = "profile.view"
	ProfileCacheKey   = "profile.cache_hit"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// SourceAttributes describes one object read.
func SourceAttributes(kind, object string, bytes int, fromMirror bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(SourceKindKey, kind),
		attribute.String(SourceObjectKey, object),
		attribute.Int(SourceBytesKey, bytes),
		attribute.Bool(SourceMirrorKey, fromMirror),
	}
}

// SnapshotAttributes describes a loaded snapshot.
func SnapshotAttributes(generation uint64, rows int, stale bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64(SnapshotGenerationKey, int64(generation)),
		attribute.Int(SnapshotRowsKey, rows),
		attribute.Bool(SnapshotStaleKey, stale),
	}
}

// ProfileAttributes creates profile view attributes. Empty values are omitted.
func ProfileAttributes(country, view string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if country != "" {
		attrs = append(attrs, attribute.String(ProfileCountryKey, country))
	}
	if view != "" {
		attrs = append(attrs, attribute.String(ProfileViewKey, view))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
