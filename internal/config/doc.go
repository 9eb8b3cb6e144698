// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads the innoviz configuration.
//
// Precedence is ENV > YAML file > defaults. The YAML file is parsed strictly:
// unknown keys are rejected so that typos never silently fall back to a
// default. All environment keys use the INNOVIZ_ prefix.
package config
