//go:build tools

// Package tools pins the code generators used by go generate, so mockgen is
// resolved from go.mod on a fresh checkout.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
