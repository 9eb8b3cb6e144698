// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestValidator_OneOf(t *testing.T) {
	v := New()
	v.OneOf("backend", "memory", []string{"memory", "redis"})
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.OneOf("backend", "etcd", []string{"memory", "redis"})
	if v.IsValid() {
		t.Fatal("expected error for etcd")
	}
}

func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr bool
	}{
		{"within", 5, 1, 10, false},
		{"at min", 1, 1, 10, false},
		{"at max", 10, 1, 10, false},
		{"below", 0, 1, 10, true},
		{"above", 11, 1, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Range("n", tt.value, tt.min, tt.max)
			if tt.wantErr == v.IsValid() {
				t.Errorf("Range(%d, %d, %d) valid=%v, wantErr=%v", tt.value, tt.min, tt.max, v.IsValid(), tt.wantErr)
			}
		})
	}
}

func TestValidator_FloatRangeRejectsNaN(t *testing.T) {
	v := New()
	v.FloatRange("rate", 0.5, 0, 1)
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.FloatRange("rate", math.NaN(), 0, 1)
	if v.IsValid() {
		t.Fatal("expected NaN to be rejected")
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{":8080", false},
		{"127.0.0.1:8080", false},
		{"", true},
		{"8080", true},
	}
	for _, tt := range tests {
		v := New()
		v.ListenAddr("listen", tt.addr)
		if tt.wantErr == v.IsValid() {
			t.Errorf("ListenAddr(%q) valid=%v, wantErr=%v", tt.addr, v.IsValid(), tt.wantErr)
		}
	}
}

func TestValidator_HostPortRequiresHost(t *testing.T) {
	v := New()
	v.HostPort("redis", ":6379")
	if v.IsValid() {
		t.Fatal("expected missing host to be rejected")
	}
}

func TestValidator_ObjectName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"country_codes.parquet", false},
		{"", true},
		{"../secret", true},
		{"dir/file.csv", true},
		{`dir\file.csv`, true},
		{"..", true},
	}
	for _, tt := range tests {
		v := New()
		v.ObjectName("object", tt.name)
		if tt.wantErr == v.IsValid() {
			t.Errorf("ObjectName(%q) valid=%v, wantErr=%v", tt.name, v.IsValid(), tt.wantErr)
		}
	}
}

func TestValidator_MinDuration(t *testing.T) {
	v := New()
	v.MinDuration("ttl", 500*time.Millisecond, time.Second)
	if v.IsValid() {
		t.Fatal("expected short duration to be rejected")
	}
}

func TestValidationError_AggregatesMessages(t *testing.T) {
	v := New()
	v.NotEmpty("a", "")
	v.NotEmpty("b", "  ")

	err := v.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(verr.Errors()))
	}
	if !strings.Contains(err.Error(), "a") || !strings.Contains(err.Error(), "; ") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidator_ErrNilWhenValid(t *testing.T) {
	if err := New().Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
