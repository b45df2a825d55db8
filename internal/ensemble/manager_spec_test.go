package ensemble_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlebox/internal/ensemble"
)

var _ = Describe("Manager", func() {
	var m *ensemble.Manager

	BeforeEach(func() {
		cfg := ensemble.DefaultConfig()
		cfg.Seed = 7
		cfg.MaxParticles = 5

		var err error
		m, err = ensemble.New(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("when empty", func() {
		It("has no particles and no draw data", func() {
			Expect(m.Len()).To(BeZero())
			Expect(m.Info()).To(BeEmpty())
		})

		It("treats remove and clear as no-ops", func() {
			_, err := m.Remove()
			Expect(err).To(MatchError(ensemble.ErrEmpty))
			Expect(m.Clear()).To(BeZero())
			Expect(m.Len()).To(BeZero())
		})
	})

	Context("at capacity", func() {
		BeforeEach(func() {
			for i := 0; i < 5; i++ {
				_, err := m.Add(1, 1, 1)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("rejects further adds without changing the count", func() {
			for i := 0; i < 3; i++ {
				_, err := m.Add(5, 5, 5)
				Expect(err).To(MatchError(ensemble.ErrCapacity))
				Expect(m.Len()).To(Equal(5))
			}
		})

		It("accepts an add again after a remove", func() {
			_, err := m.Remove()
			Expect(err).NotTo(HaveOccurred())
			_, err = m.Add(2, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Len()).To(Equal(5))
		})
	})

	It("keeps draw data in step with the count over any sequence of operations", func() {
		ops := []func(){
			func() { m.Simulate(3) },
			func() { m.Add(2, 3, 4) },
			func() { m.Update() },
			func() { m.Remove() },
			func() { m.Simulate(4) },
			func() { m.Add(1, 1, 1) },
			func() { m.Update() },
			func() { m.Clear() },
			func() { m.Remove() },
			func() { m.Add(5, 5, 5) },
		}
		for _, op := range ops {
			op()
			Expect(m.Info()).To(HaveLen(m.Len()))
		}
	})

	It("keeps particles moving and valid across many ticks", func() {
		m.Simulate(5)
		for i := 0; i < 2000; i++ {
			m.Update()
		}
		for _, p := range m.Particles() {
			Expect(p.IsValid()).To(BeTrue())
		}
	})
})
