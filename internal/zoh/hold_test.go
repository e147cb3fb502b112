package zoh_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/roversim/internal/zoh"
)

var _ = Describe("Hold", func() {
	type sample struct{ a, b float64 }

	It("is invalid and zero until latched", func() {
		var h zoh.Hold[sample]
		Expect(h.Valid()).To(BeFalse())
		Expect(h.Value()).To(Equal(sample{}))
		Expect(h.Latches()).To(BeZero())
	})

	It("returns the latched value until the next latch", func() {
		var h zoh.Hold[sample]
		h.Latch(sample{1, 2}, 0.02)

		for i := 0; i < 10; i++ {
			Expect(h.Value()).To(Equal(sample{1, 2}))
		}
		Expect(h.At()).To(Equal(0.02))
		Expect(h.Valid()).To(BeTrue())

		h.Latch(sample{3, 4}, 0.04)
		Expect(h.Value()).To(Equal(sample{3, 4}))
		Expect(h.At()).To(Equal(0.04))
		Expect(h.Latches()).To(Equal(2))
	})
})
