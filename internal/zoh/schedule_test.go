package zoh_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/roversim/internal/zoh"
)

var _ = Describe("Schedule", func() {
	var s zoh.Schedule

	BeforeEach(func() {
		var err error
		s, err = zoh.NewSchedule(0.1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects non-positive and non-finite periods", func() {
		for _, p := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			_, err := zoh.NewSchedule(p)
			Expect(err).To(HaveOccurred(), "period %v", p)
		}
	})

	It("starts at the origin", func() {
		Expect(s.Next()).To(Equal(0.0))
		Expect(s.Fired()).To(BeZero())
		Expect(s.Due(0)).To(BeTrue())
		Expect(s.Before(0)).To(BeFalse())
	})

	It("places boundaries on the absolute grid", func() {
		for k := 0; k < 1000; k++ {
			Expect(s.Consume()).To(Equal(float64(k) * 0.1))
		}
		Expect(s.Fired()).To(BeNumerically("==", 1000))
	})

	It("treats accumulated step sums as landing on the boundary", func() {
		t := 0.0
		for i := 0; i < 3; i++ {
			t += 0.1
		}
		s.Consume()
		s.Consume()
		s.Consume()

		Expect(s.Next()).To(BeNumerically("~", 0.3, 1e-15))
		Expect(s.Due(t)).To(BeTrue())
		Expect(s.Before(t)).To(BeFalse())
	})

	It("counts half-open and closed windows", func() {
		Expect(s.Count(0.25, false)).To(Equal(3))
		Expect(s.Count(0.3, false)).To(Equal(3))
		Expect(s.Count(0.3, true)).To(Equal(4))
		Expect(s.Count(-0.5, true)).To(Equal(0))

		s.Consume()
		Expect(s.Count(0.1, true)).To(Equal(1))
		Expect(s.Count(0.1, false)).To(Equal(0))
		Expect(s.Fired()).To(BeNumerically("==", 1))
	})

	It("resets to the origin", func() {
		s.Consume()
		s.Consume()
		s.Reset()
		Expect(s.Next()).To(Equal(0.0))
	})

	It("scales its tolerance with the period", func() {
		Expect(s.Tolerance()).To(BeNumerically("~", 1e-10, 1e-20))
		Expect(s.Period()).To(Equal(0.1))
	})

	It("widens its tolerance far from the origin", func() {
		for s.Next() < 2131.3-0.05 {
			s.Consume()
		}
		tb := s.Next()
		Expect(tb).To(BeNumerically("~", 2131.3, 1e-9))

		// A few ulps past the boundary is still the boundary.
		t := tb + 2e-12
		Expect(s.Due(t)).To(BeTrue())
		Expect(s.Before(t)).To(BeFalse())
		Expect(s.Count(t, false)).To(Equal(0))
		Expect(s.Count(t, true)).To(Equal(1))

		// A real gap is not.
		Expect(s.Before(tb + 1e-6)).To(BeTrue())
	})
})
