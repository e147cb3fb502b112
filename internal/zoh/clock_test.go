package zoh_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/roversim/internal/zoh"
)

var _ = Describe("Clock", func() {
	It("starts at zero", func() {
		var c zoh.Clock
		Expect(c.Now()).To(Equal(0.0))
	})

	It("leaves the receiver untouched", func() {
		var c zoh.Clock
		next := c.Add(0.01)
		Expect(c.Now()).To(Equal(0.0))
		Expect(next.Now()).To(Equal(0.01))
	})

	It("stays on the step grid over a long run", func() {
		var c zoh.Clock
		for i := 0; i < 1_000_000; i++ {
			c = c.Add(0.01)
		}
		Expect(c.Now()).To(BeNumerically("~", 10000, 1e-11))
	})
})
