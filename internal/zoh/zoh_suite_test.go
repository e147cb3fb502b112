package zoh_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestZOH(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ZOH Suite")
}
