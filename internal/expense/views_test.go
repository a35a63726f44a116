package expense_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expensepro/internal/expense"
	"github.com/frahmantamala/expensepro/internal/role"
)

var _ = Describe("ComputeViews", func() {
	var (
		hierarchy role.Hierarchy
		users     map[int64]expense.Submitter
	)

	pending := func(id, userID int64) *expense.Expense {
		return &expense.Expense{ID: id, UserID: userID, Status: expense.StatusPending}
	}
	approved := func(id, userID int64) *expense.Expense {
		return &expense.Expense{ID: id, UserID: userID, Status: expense.StatusApproved}
	}

	BeforeEach(func() {
		hierarchy = role.Default()
		users = map[int64]expense.Submitter{
			1: {ID: 1, Name: "Alex Admin", Role: role.Admin},
			2: {ID: 2, Name: "Dana Director", Role: role.Director},
			3: {ID: 3, Name: "Casey CFO", Role: role.CFO},
			4: {ID: 4, Name: "Morgan Manager", Role: role.Manager},
			5: {ID: 5, Name: "Evan Employee", Role: role.Employee},
			6: {ID: 6, Name: "Wren Worker", Role: role.Employee},
		}
	})

	It("partitions own submissions out of the shared list", func() {
		expenses := []*expense.Expense{
			pending(1, 5),
			pending(2, 6),
			approved(3, 5),
		}

		view := expense.ComputeViews(5, role.Employee, hierarchy, expenses, users)

		Expect(view.OwnSubmissions).To(HaveLen(2))
		Expect(view.OwnSubmissions[0].ID).To(Equal(int64(1)))
		Expect(view.OwnSubmissions[1].ID).To(Equal(int64(3)))
		Expect(view.ApprovalQueue).To(BeEmpty())
		Expect(view.FullOverview).To(BeEmpty())
	})

	It("groups the queue by submitter role in fixed display order", func() {
		expenses := []*expense.Expense{
			pending(1, 5),
			pending(2, 4),
			pending(3, 3),
			pending(4, 2),
			pending(5, 6),
		}

		view := expense.ComputeViews(1, role.Admin, hierarchy, expenses, users)

		Expect(view.ApprovalQueue).To(HaveLen(4))
		Expect(view.ApprovalQueue[0].Role).To(Equal(role.Director))
		Expect(view.ApprovalQueue[1].Role).To(Equal(role.CFO))
		Expect(view.ApprovalQueue[2].Role).To(Equal(role.Manager))
		Expect(view.ApprovalQueue[3].Role).To(Equal(role.Employee))
	})

	It("preserves relative order within a group", func() {
		expenses := []*expense.Expense{
			pending(10, 5),
			pending(11, 6),
			pending(12, 5),
		}

		view := expense.ComputeViews(4, role.Manager, hierarchy, expenses, users)

		Expect(view.ApprovalQueue).To(HaveLen(1))
		ids := []int64{}
		for _, e := range view.ApprovalQueue[0].Expenses {
			ids = append(ids, e.ID)
		}
		Expect(ids).To(Equal([]int64{10, 11, 12}))
	})

	It("drops empty role groups entirely", func() {
		expenses := []*expense.Expense{
			pending(1, 5),
		}

		view := expense.ComputeViews(3, role.CFO, hierarchy, expenses, users)

		// CFO covers managers and employees, but only an employee submitted.
		Expect(view.ApprovalQueue).To(HaveLen(1))
		Expect(view.ApprovalQueue[0].Role).To(Equal(role.Employee))
	})

	It("excludes decided expenses from the queue", func() {
		expenses := []*expense.Expense{
			approved(1, 5),
			pending(2, 5),
		}

		view := expense.ComputeViews(4, role.Manager, hierarchy, expenses, users)

		Expect(view.ApprovalQueue).To(HaveLen(1))
		Expect(view.ApprovalQueue[0].Expenses).To(HaveLen(1))
		Expect(view.ApprovalQueue[0].Expenses[0].ID).To(Equal(int64(2)))
	})

	It("excludes the viewer's own pending expense from their queue", func() {
		custom := role.Hierarchy{
			role.Manager: {role.Manager, role.Employee},
		}
		expenses := []*expense.Expense{
			pending(1, 4),
			pending(2, 5),
		}

		view := expense.ComputeViews(4, role.Manager, custom, expenses, users)

		for _, group := range view.ApprovalQueue {
			for _, e := range group.Expenses {
				Expect(e.UserID).NotTo(Equal(int64(4)))
			}
		}
	})

	It("gives an employee no queue at all", func() {
		expenses := []*expense.Expense{
			pending(1, 6),
			pending(2, 4),
		}

		view := expense.ComputeViews(5, role.Employee, hierarchy, expenses, users)
		Expect(view.ApprovalQueue).To(BeEmpty())
	})

	It("gives an unknown role neither queue nor overview", func() {
		expenses := []*expense.Expense{
			pending(1, 5),
		}

		view := expense.ComputeViews(99, role.Role("intern"), hierarchy, expenses, users)
		Expect(view.ApprovalQueue).To(BeEmpty())
		Expect(view.FullOverview).To(BeEmpty())
	})

	It("skips submissions from users missing in the directory", func() {
		expenses := []*expense.Expense{
			pending(1, 42),
			pending(2, 5),
		}

		view := expense.ComputeViews(4, role.Manager, hierarchy, expenses, users)

		Expect(view.ApprovalQueue).To(HaveLen(1))
		Expect(view.ApprovalQueue[0].Expenses).To(HaveLen(1))
		Expect(view.ApprovalQueue[0].Expenses[0].ID).To(Equal(int64(2)))
	})

	It("builds the full overview only for the admin", func() {
		expenses := []*expense.Expense{
			pending(1, 5),
			approved(2, 4),
			pending(3, 2),
		}

		adminView := expense.ComputeViews(1, role.Admin, hierarchy, expenses, users)
		Expect(adminView.FullOverview).To(HaveLen(3))

		directorView := expense.ComputeViews(2, role.Director, hierarchy, expenses, users)
		Expect(directorView.FullOverview).To(BeEmpty())
	})

	It("decorates rows with the submitter's name and role", func() {
		expenses := []*expense.Expense{
			pending(1, 5),
		}

		view := expense.ComputeViews(4, role.Manager, hierarchy, expenses, users)

		row := view.ApprovalQueue[0].Expenses[0]
		Expect(row.SubmitterName).To(Equal("Evan Employee"))
		Expect(row.SubmitterRole).To(Equal(role.Employee))
	})
})
