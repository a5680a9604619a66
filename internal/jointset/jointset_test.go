package jointset

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/jointreg/internal/ctxlog"
	"github.com/san-kum/jointreg/internal/dynamo"
)

var _ = Describe("JointSet", func() {
	var (
		ctx context.Context
		sys *recordingSystem
	)

	BeforeEach(func() {
		ctx = context.Background()
		sys = &recordingSystem{}
	})

	Describe("Register", func() {
		It("registers a chain parents first whatever the storage order", func() {
			b := bodies("ground", "b0", "b1", "b2")
			j0 := joint("J0", b["ground"], b["b0"])
			j1 := joint("J1", b["b0"], b["b1"])
			j2 := joint("J2", b["b1"], b["b2"])

			Expect(New(j2, j0, j1).Register(ctx, sys)).To(Succeed())
			Expect(sys.calls).To(Equal([]string{"J0", "J1", "J2"}))
		})

		It("registers a single joint off ground", func() {
			b := bodies("ground", "bob")
			s := New(joint("J0", b["ground"], b["bob"]))

			steps, err := s.Plan()
			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(HaveLen(1))
			Expect(steps[0].Depth).To(Equal(0))
			Expect(steps[0].Level).To(Equal(1))

			Expect(s.Register(ctx, sys)).To(Succeed())
			Expect(sys.calls).To(Equal([]string{"J0"}))
		})

		It("orders each of two disjoint chains internally", func() {
			b := bodies("ground", "a0", "a1", "c0", "c1")
			s := New(
				joint("A1", b["a0"], b["a1"]),
				joint("C1", b["c0"], b["c1"]),
				joint("C0", b["ground"], b["c0"]),
				joint("A0", b["ground"], b["a0"]),
			)

			Expect(s.Register(ctx, sys)).To(Succeed())
			Expect(sys.calls).To(HaveLen(4))
			Expect(indexOf(sys.calls, "A0")).To(BeNumerically("<", indexOf(sys.calls, "A1")))
			Expect(indexOf(sys.calls, "C0")).To(BeNumerically("<", indexOf(sys.calls, "C1")))
		})

		It("treats a parent body with no joint in the set as a root", func() {
			b := bodies("floating", "child")
			Expect(New(joint("J0", b["floating"], b["child"])).Register(ctx, sys)).To(Succeed())
			Expect(sys.calls).To(Equal([]string{"J0"}))
		})

		It("rejects a cycle before touching the system", func() {
			b := bodies("b0", "b1")
			s := New(
				joint("J0", b["b1"], b["b0"]),
				joint("J1", b["b0"], b["b1"]),
			)

			err := s.Register(ctx, sys)
			Expect(err).To(MatchError(dynamo.ErrCyclicParentChain))

			var topo *dynamo.TopologyError
			Expect(errors.As(err, &topo)).To(BeTrue())
			Expect(topo.Joints).To(Equal([]string{"J0", "J1"}))
			Expect(sys.calls).To(BeEmpty())
		})

		It("reports only the cycle members when a chain leads into a cycle", func() {
			b := bodies("b0", "b1", "b2")
			s := New(
				joint("tail", b["b1"], b["b2"]),
				joint("J0", b["b1"], b["b0"]),
				joint("J1", b["b0"], b["b1"]),
			)

			_, err := s.Plan()
			var topo *dynamo.TopologyError
			Expect(errors.As(err, &topo)).To(BeTrue())
			Expect(topo.Kind).To(Equal(dynamo.ErrCyclicParentChain))
			Expect(topo.Joints).To(ConsistOf("J0", "J1"))
		})

		It("rejects a joint that is its own parent", func() {
			b := bodies("b0")
			_, err := New(joint("J0", b["b0"], b["b0"])).Plan()
			Expect(err).To(MatchError(dynamo.ErrCyclicParentChain))
		})

		It("rejects two joints with the same child body", func() {
			b := bodies("ground", "bob")
			s := New(
				joint("first", b["ground"], b["bob"]),
				joint("second", b["ground"], b["bob"]),
			)

			err := s.Register(ctx, sys)
			Expect(err).To(MatchError(dynamo.ErrDuplicateChildBody))
			Expect(err.Error()).To(ContainSubstring("first -> second"))
			Expect(sys.calls).To(BeEmpty())
		})

		It("rejects a joint without a child body", func() {
			b := bodies("ground")
			_, err := New(joint("J0", b["ground"], nil)).Plan()
			Expect(err).To(MatchError(dynamo.ErrMissingBody))
		})

		It("stops at the first engine failure and keeps earlier registrations", func() {
			b := bodies("ground", "b0", "b1", "b2")
			s := New(
				joint("J2", b["b1"], b["b2"]),
				joint("J1", b["b0"], b["b1"]),
				joint("J0", b["ground"], b["b0"]),
			)
			sys.failOn = "J1"

			err := s.Register(ctx, sys)
			Expect(err).To(MatchError(dynamo.ErrRegistration))
			Expect(err).To(MatchError(errRejected))

			var regErr *dynamo.RegistrationError
			Expect(errors.As(err, &regErr)).To(BeTrue())
			Expect(regErr.Joint).To(Equal("J1"))
			Expect(regErr.Index).To(Equal(1))
			Expect(sys.calls).To(Equal([]string{"J0"}))
		})

		It("logs each driver request at debug level in storage order", func() {
			var buf bytes.Buffer
			ctx = ctxlog.WithLogger(ctx, ctxlog.New(&buf, "debug"))
			b := bodies("ground", "b0", "b1", "b2")
			s := New(
				joint("J2", b["b1"], b["b2"]),
				joint("J0", b["ground"], b["b0"]),
				joint("J1", b["b0"], b["b1"]),
			)

			Expect(s.Register(ctx, sys)).To(Succeed())
			Expect(sys.calls).To(Equal([]string{"J0", "J1", "J2"}))

			out := buf.String()
			Expect(strings.Count(out, "calling AddToSystem for joint")).To(Equal(3))
			i2 := strings.Index(out, "joint=J2")
			i0 := strings.Index(out, "joint=J0")
			i1 := strings.Index(out, "joint=J1")
			Expect(i2).To(BeNumerically(">=", 0))
			Expect(i2).To(BeNumerically("<", i0))
			Expect(i0).To(BeNumerically("<", i1))
		})

		It("returns the followed plan alongside an engine failure", func() {
			b := bodies("ground", "b0", "b1")
			s := New(
				joint("J1", b["b0"], b["b1"]),
				joint("J0", b["ground"], b["b0"]),
			)
			sys.failOn = "J1"

			steps, err := s.RegisterPlan(ctx, sys)
			Expect(err).To(MatchError(dynamo.ErrRegistration))
			Expect(stepNames(steps)).To(Equal([]string{"J0", "J1"}))
			Expect(sys.calls).To(Equal([]string{"J0"}))
		})

		It("returns no plan for a malformed set", func() {
			b := bodies("b0", "b1")
			steps, err := New(
				joint("J0", b["b1"], b["b0"]),
				joint("J1", b["b0"], b["b1"]),
			).RegisterPlan(ctx, sys)
			Expect(err).To(MatchError(dynamo.ErrCyclicParentChain))
			Expect(steps).To(BeNil())
		})

		It("registers random trees exactly once each, parents first", func() {
			rng := rand.New(rand.NewSource(7))
			for trial := 0; trial < 50; trial++ {
				n := 1 + rng.Intn(30)
				all := make([]*dynamo.Body, n+1)
				all[0] = &dynamo.Body{Name: "ground"}
				parentOf := make(map[string]string, n)
				joints := make([]dynamo.Joint, n)
				for i := 1; i <= n; i++ {
					all[i] = &dynamo.Body{Name: "b"}
					p := rng.Intn(i)
					name := jointName(i)
					joints[i-1] = joint(name, all[p], all[i])
					if p > 0 {
						parentOf[name] = jointName(p)
					}
				}
				rng.Shuffle(len(joints), func(a, b int) { joints[a], joints[b] = joints[b], joints[a] })

				rec := &recordingSystem{}
				Expect(New(joints...).Register(ctx, rec)).To(Succeed())
				Expect(rec.calls).To(HaveLen(n))

				pos := make(map[string]int, n)
				for i, c := range rec.calls {
					Expect(pos).NotTo(HaveKey(c))
					pos[c] = i
				}
				for child, parent := range parentOf {
					Expect(pos[parent]).To(BeNumerically("<", pos[child]))
				}
			}
		})
	})

	Describe("Plan", func() {
		It("reports recursion depth and tree level", func() {
			b := bodies("ground", "b0", "b1", "b2")
			s := New(
				joint("J2", b["b1"], b["b2"]),
				joint("J0", b["ground"], b["b0"]),
				joint("J1", b["b0"], b["b1"]),
			)

			steps, err := s.Plan()
			Expect(err).NotTo(HaveOccurred())
			Expect(stepNames(steps)).To(Equal([]string{"J0", "J1", "J2"}))
			Expect([]int{steps[0].Depth, steps[1].Depth, steps[2].Depth}).To(Equal([]int{2, 1, 0}))
			Expect([]int{steps[0].Level, steps[1].Level, steps[2].Level}).To(Equal([]int{1, 2, 3}))
			Expect([]int{steps[0].Index, steps[1].Index, steps[2].Index}).To(Equal([]int{1, 2, 0}))
		})

		It("starts every pass from scratch", func() {
			b := bodies("ground", "b0", "b1")
			s := New(joint("J1", b["b0"], b["b1"]), joint("J0", b["ground"], b["b0"]))

			first, err := s.Plan()
			Expect(err).NotTo(HaveOccurred())
			second, err := s.Plan()
			Expect(err).NotTo(HaveOccurred())
			Expect(stepNames(second)).To(Equal(stepNames(first)))
		})

		It("returns an empty plan for an empty set", func() {
			steps, err := New().Plan()
			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(BeEmpty())
		})
	})

	Describe("walker", func() {
		It("does nothing when visiting an already registered joint", func() {
			b := bodies("ground", "b0", "b1", "b2")
			joints := []dynamo.Joint{
				joint("J0", b["ground"], b["b0"]),
				joint("J1", b["b0"], b["b1"]),
				joint("J2", b["b1"], b["b2"]),
			}
			var emitted []string
			p, err := newPass(joints, func(st Step) error {
				emitted = append(emitted, st.Joint.Name())
				return nil
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(p.visit(2)).To(Succeed())
			Expect(emitted).To(Equal([]string{"J0", "J1", "J2"}))

			Expect(p.visit(2)).To(Succeed())
			Expect(p.visit(0)).To(Succeed())
			Expect(emitted).To(HaveLen(3))
		})

		It("stops ascending at a joint that is already registered", func() {
			b := bodies("ground", "b0", "b1", "b2")
			joints := []dynamo.Joint{
				joint("J0", b["ground"], b["b0"]),
				joint("J1", b["b0"], b["b1"]),
				joint("J2", b["b0"], b["b2"]),
			}
			var steps []Step
			p, err := newPass(joints, func(st Step) error {
				steps = append(steps, st)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(p.visit(1)).To(Succeed())
			Expect(p.visit(2)).To(Succeed())
			Expect(stepNames(steps)).To(Equal([]string{"J0", "J1", "J2"}))
			Expect(steps[2].Depth).To(Equal(0))
			Expect(steps[2].Level).To(Equal(2))
		})
	})

	Describe("collection", func() {
		It("populates from bodies, skipping ground and binding children", func() {
			b := bodies("ground", "upper", "lower")
			shoulder := joint("shoulder", b["ground"], nil)
			elbow := joint("elbow", b["upper"], nil)
			b["upper"].Joint = shoulder
			b["lower"].Joint = elbow

			s := Populate(bodyList{b["ground"], b["lower"], b["upper"]})
			Expect(s.Names()).To(Equal([]string{"elbow", "shoulder"}))
			Expect(elbow.Child()).To(BeIdenticalTo(b["lower"]))
			Expect(shoulder.Child()).To(BeIdenticalTo(b["upper"]))

			Expect(s.Register(ctx, sys)).To(Succeed())
			Expect(sys.calls).To(Equal([]string{"shoulder", "elbow"}))
		})

		It("finds joints by name", func() {
			b := bodies("ground", "bob")
			s := New(joint("hinge", b["ground"], b["bob"]))

			j, ok := s.Find("hinge")
			Expect(ok).To(BeTrue())
			Expect(j).To(BeIdenticalTo(s.Get(0)))

			_, ok = s.Find("missing")
			Expect(ok).To(BeFalse())
		})

		It("clones without sharing the joint list", func() {
			b := bodies("ground", "a", "c")
			s := New(joint("A", b["ground"], b["a"]))
			c := s.Clone()
			c.Append(joint("C", b["ground"], b["c"]))

			Expect(s.Len()).To(Equal(1))
			Expect(c.Len()).To(Equal(2))
			Expect(c.Get(0)).To(BeIdenticalTo(s.Get(0)))
		})

		It("scales every joint", func() {
			b := bodies("ground", "a")
			j := joint("A", b["ground"], b["a"])
			j.loc = dynamo.Vec3{1, 2, 3}

			New(j).Scale(dynamo.ScaleSet{"ground": dynamo.Uniform(2)})
			Expect(j.loc).To(Equal(dynamo.Vec3{2, 4, 6}))
		})
	})
})

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func jointName(i int) string {
	return "J" + string(rune('A'+i/26)) + string(rune('a'+i%26))
}
