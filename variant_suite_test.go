// Copyright (c) 2024 Neomantra Corp

package variant_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Test Launcher
func TestVariant(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "variant-go suite")
}
