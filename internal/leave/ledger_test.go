package leave_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopledesk/leave-management/internal"
	"github.com/peopledesk/leave-management/internal/leave"
)

var _ = Describe("Balance", func() {
	var balance *leave.Balance

	BeforeEach(func() {
		balance = leave.NewBalance(1, 24)
	})

	It("provisions with the full allowance available", func() {
		Expect(balance.CurrentBalance).To(Equal(24))
		Expect(balance.AvailableDays).To(Equal(24))
		Expect(balance.UsedDays).To(Equal(0))
		Expect(balance.PendingDays).To(Equal(0))
		Expect(balance.Consistent()).To(BeTrue())
	})

	Describe("Reserve", func() {
		It("moves days from available to pending", func() {
			Expect(balance.Reserve(3)).To(Succeed())
			Expect(balance.AvailableDays).To(Equal(21))
			Expect(balance.PendingDays).To(Equal(3))
			Expect(balance.UsedDays).To(Equal(0))
			Expect(balance.Consistent()).To(BeTrue())
		})

		It("rejects a reservation beyond the available pool", func() {
			err := balance.Reserve(25)
			Expect(err).To(MatchError(internal.ErrInsufficientBalance))
			Expect(balance.AvailableDays).To(Equal(24))
			Expect(balance.PendingDays).To(Equal(0))
		})

		It("allows reserving exactly the remaining balance", func() {
			Expect(balance.Reserve(24)).To(Succeed())
			Expect(balance.AvailableDays).To(Equal(0))
			Expect(balance.PendingDays).To(Equal(24))
			Expect(balance.Consistent()).To(BeTrue())
		})

		It("rejects further reservations once the pool is empty", func() {
			Expect(balance.Reserve(24)).To(Succeed())
			err := balance.Reserve(1)
			Expect(err).To(MatchError(internal.ErrInsufficientBalance))
		})

		It("rejects non-positive day counts", func() {
			Expect(balance.Reserve(0)).ToNot(Succeed())
			Expect(balance.Reserve(-3)).ToNot(Succeed())
		})
	})

	Describe("CommitUsed", func() {
		It("converts pending days to used without touching available", func() {
			Expect(balance.Reserve(3)).To(Succeed())
			Expect(balance.CommitUsed(3)).To(Succeed())
			Expect(balance.UsedDays).To(Equal(3))
			Expect(balance.PendingDays).To(Equal(0))
			Expect(balance.AvailableDays).To(Equal(21))
			Expect(balance.Consistent()).To(BeTrue())
		})

		It("refuses to commit more than is pending", func() {
			Expect(balance.Reserve(3)).To(Succeed())
			Expect(balance.CommitUsed(4)).ToNot(Succeed())
		})
	})

	Describe("Release", func() {
		It("returns pending days to the available pool", func() {
			Expect(balance.Reserve(3)).To(Succeed())
			Expect(balance.Release(3)).To(Succeed())
			Expect(balance.PendingDays).To(Equal(0))
			Expect(balance.AvailableDays).To(Equal(24))
			Expect(balance.UsedDays).To(Equal(0))
			Expect(balance.Consistent()).To(BeTrue())
		})

		It("refuses to release more than is pending", func() {
			Expect(balance.Reserve(2)).To(Succeed())
			Expect(balance.Release(3)).ToNot(Succeed())
		})
	})

	It("stays consistent across a mixed sequence of transitions", func() {
		Expect(balance.Reserve(5)).To(Succeed())
		Expect(balance.Reserve(4)).To(Succeed())
		Expect(balance.CommitUsed(5)).To(Succeed())
		Expect(balance.Release(4)).To(Succeed())

		Expect(balance.UsedDays).To(Equal(5))
		Expect(balance.PendingDays).To(Equal(0))
		Expect(balance.AvailableDays).To(Equal(19))
		Expect(balance.Consistent()).To(BeTrue())
	})
})
