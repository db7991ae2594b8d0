// Package id generates identifiers for collection runs.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "run-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and safe to embed in output file names.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewRunID returns an identifier for one collection run.
// Panics if the system has insufficient entropy; run IDs are generated
// once at startup, where failure should crash the program.
func NewRunID() string {
	id, err := Generate("run")
	if err != nil {
		panic(fmt.Sprintf("failed to generate run ID: %v", err))
	}
	return id
}
