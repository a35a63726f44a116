package expense_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expensepro/internal"
	"github.com/frahmantamala/expensepro/internal/expense"
	"github.com/frahmantamala/expensepro/internal/role"
	"github.com/frahmantamala/expensepro/internal/user"
)

func TestExpense(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Service Suite")
}

// Mock repository for testing
type mockExpenseRepository struct {
	expenses          map[int64]*expense.Expense
	order             []int64
	createError       error
	getError          error
	updateStatusError error
	nextID            int64
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[int64]*expense.Expense),
		nextID:   1,
	}
}

func (m *mockExpenseRepository) Create(exp *expense.Expense) error {
	if m.createError != nil {
		return m.createError
	}
	exp.ID = m.nextID
	m.nextID++
	m.expenses[exp.ID] = exp
	m.order = append(m.order, exp.ID)
	return nil
}

func (m *mockExpenseRepository) GetByID(id int64) (*expense.Expense, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	exp, exists := m.expenses[id]
	if !exists {
		return nil, errors.New("expense not found")
	}
	clone := *exp
	return &clone, nil
}

func (m *mockExpenseRepository) GetByUserID(userID int64) ([]*expense.Expense, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var out []*expense.Expense
	for _, id := range m.order {
		if m.expenses[id].UserID == userID {
			clone := *m.expenses[id]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) GetAll() ([]*expense.Expense, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	out := make([]*expense.Expense, 0, len(m.order))
	for _, id := range m.order {
		clone := *m.expenses[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockExpenseRepository) UpdateStatus(id int64, status string, comments *string) error {
	if m.updateStatusError != nil {
		return m.updateStatusError
	}
	exp, exists := m.expenses[id]
	if !exists {
		return errors.New("expense not found")
	}
	exp.Status = status
	exp.Comments = comments
	exp.UpdatedAt = time.Now()
	return nil
}

// Mock user directory for testing
type mockUserDirectory struct {
	users    map[int64]*user.User
	getError error
}

func newMockUserDirectory(users ...*user.User) *mockUserDirectory {
	m := &mockUserDirectory{users: make(map[int64]*user.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserDirectory) GetByID(userID int64) (*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, exists := m.users[userID]
	if !exists {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserDirectory) GetAll() ([]*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	out := make([]*user.User, 0, len(m.users))
	for id := int64(1); id <= int64(len(m.users))+10; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

var _ = Describe("Expense Service", func() {
	var (
		repo    *mockExpenseRepository
		users   *mockUserDirectory
		service *expense.Service

		admin    *user.User
		director *user.User
		cfo      *user.User
		manager  *user.User
		employee *user.User
		worker   *user.User
	)

	validSubmission := func() expense.SubmitExpenseDTO {
		return expense.SubmitExpenseDTO{
			Amount:      120.50,
			Category:    "Travel",
			Description: "Taxi to the airport",
			Date:        time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		}
	}

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		admin = &user.User{ID: 1, Name: "Alex Admin", Role: role.Admin}
		director = &user.User{ID: 2, Name: "Dana Director", Role: role.Director}
		cfo = &user.User{ID: 3, Name: "Casey CFO", Role: role.CFO}
		manager = &user.User{ID: 4, Name: "Morgan Manager", Role: role.Manager}
		employee = &user.User{ID: 5, Name: "Evan Employee", Role: role.Employee}
		worker = &user.User{ID: 6, Name: "Wren Worker", Role: role.Employee}

		repo = newMockExpenseRepository()
		users = newMockUserDirectory(admin, director, cfo, manager, employee, worker)
		service = expense.NewService(repo, users, role.Default(), nil, lg)
	})

	Describe("SubmitExpense", func() {
		It("stores a new submission as pending", func() {
			exp, err := service.SubmitExpense(employee.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			Expect(exp.ID).To(Equal(int64(1)))
			Expect(exp.Status).To(Equal(expense.StatusPending))
			Expect(exp.UserID).To(Equal(employee.ID))
		})

		It("always starts pending, whoever submits", func() {
			for _, u := range []*user.User{admin, director, cfo, manager, employee} {
				exp, err := service.SubmitExpense(u.ID, validSubmission())
				Expect(err).NotTo(HaveOccurred())
				Expect(exp.Status).To(Equal(expense.StatusPending))
			}
		})

		It("defaults the currency when none is given", func() {
			exp, err := service.SubmitExpense(employee.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			Expect(exp.Currency).To(Equal(expense.DefaultCurrency))
		})

		It("rejects a non-positive amount", func() {
			dto := validSubmission()
			dto.Amount = 0
			_, err := service.SubmitExpense(employee.ID, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidAmount))
		})

		It("rejects a missing description", func() {
			dto := validSubmission()
			dto.Description = ""
			_, err := service.SubmitExpense(employee.ID, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDescription))
		})

		It("rejects a future expense date", func() {
			dto := validSubmission()
			dto.Date = time.Now().AddDate(0, 0, 2).Format("2006-01-02")
			_, err := service.SubmitExpense(employee.ID, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
		})

		It("rejects a malformed date", func() {
			dto := validSubmission()
			dto.Date = "31-12-2025"
			_, err := service.SubmitExpense(employee.ID, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
		})

		It("wraps storage failures", func() {
			repo.createError = errors.New("connection refused")
			_, err := service.SubmitExpense(employee.ID, validSubmission())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypePersistence))
		})
	})

	Describe("ApproveExpense", func() {
		var expID int64

		BeforeEach(func() {
			exp, err := service.SubmitExpense(employee.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			expID = exp.ID
		})

		It("lets a manager approve an employee's expense", func() {
			err := service.ApproveExpense(manager.ID, manager.Role, expID, expense.ApproveExpenseDTO{})
			Expect(err).NotTo(HaveOccurred())

			stored, _ := repo.GetByID(expID)
			Expect(stored.Status).To(Equal(expense.StatusApproved))
		})

		It("keeps the approval comment when one is given", func() {
			comment := "receipts attached"
			err := service.ApproveExpense(manager.ID, manager.Role, expID, expense.ApproveExpenseDTO{Comments: &comment})
			Expect(err).NotTo(HaveOccurred())

			stored, _ := repo.GetByID(expID)
			Expect(stored.Comments).NotTo(BeNil())
			Expect(*stored.Comments).To(Equal("receipts attached"))
		})

		It("denies an employee approving a peer", func() {
			err := service.ApproveExpense(worker.ID, worker.Role, expID, expense.ApproveExpenseDTO{})
			Expect(err).To(Equal(internal.ErrNotAuthorizedToDecide))

			stored, _ := repo.GetByID(expID)
			Expect(stored.Status).To(Equal(expense.StatusPending))
		})

		It("denies a manager approving another manager", func() {
			exp, err := service.SubmitExpense(manager.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())

			other := &user.User{ID: 7, Name: "Max Manager", Role: role.Manager}
			users.users[other.ID] = other

			err = service.ApproveExpense(other.ID, other.Role, exp.ID, expense.ApproveExpenseDTO{})
			Expect(err).To(Equal(internal.ErrNotAuthorizedToDecide))
		})

		It("never lets an approver decide their own submission", func() {
			exp, err := service.SubmitExpense(director.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())

			err = service.ApproveExpense(director.ID, director.Role, exp.ID, expense.ApproveExpenseDTO{})
			Expect(err).To(Equal(internal.ErrNotAuthorizedToDecide))
		})

		It("lets the admin approve a director's expense", func() {
			exp, err := service.SubmitExpense(director.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())

			err = service.ApproveExpense(admin.ID, admin.Role, exp.ID, expense.ApproveExpenseDTO{})
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns not found for a missing expense", func() {
			err := service.ApproveExpense(manager.ID, manager.Role, 9999, expense.ApproveExpenseDTO{})
			Expect(err).To(Equal(internal.ErrExpenseNotFound))
		})

		It("refuses to approve an already decided expense", func() {
			err := service.ApproveExpense(manager.ID, manager.Role, expID, expense.ApproveExpenseDTO{})
			Expect(err).NotTo(HaveOccurred())

			err = service.ApproveExpense(cfo.ID, cfo.Role, expID, expense.ApproveExpenseDTO{})
			Expect(err).To(Equal(internal.ErrExpenseAlreadyDecided))

			stored, _ := repo.GetByID(expID)
			Expect(stored.Status).To(Equal(expense.StatusApproved))
		})
	})

	Describe("RejectExpense", func() {
		var expID int64

		BeforeEach(func() {
			exp, err := service.SubmitExpense(employee.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			expID = exp.ID
		})

		It("records the rejection reason", func() {
			err := service.RejectExpense(manager.ID, manager.Role, expID, expense.RejectExpenseDTO{Reason: "no receipt"})
			Expect(err).NotTo(HaveOccurred())

			stored, _ := repo.GetByID(expID)
			Expect(stored.Status).To(Equal(expense.StatusRejected))
			Expect(stored.Comments).NotTo(BeNil())
			Expect(*stored.Comments).To(Equal("no receipt"))
		})

		It("leaves the expense pending when no reason is given", func() {
			err := service.RejectExpense(manager.ID, manager.Role, expID, expense.RejectExpenseDTO{})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingReason))

			stored, _ := repo.GetByID(expID)
			Expect(stored.Status).To(Equal(expense.StatusPending))
		})

		It("refuses to reject an already rejected expense", func() {
			err := service.RejectExpense(manager.ID, manager.Role, expID, expense.RejectExpenseDTO{Reason: "duplicate"})
			Expect(err).NotTo(HaveOccurred())

			err = service.RejectExpense(cfo.ID, cfo.Role, expID, expense.RejectExpenseDTO{Reason: "again"})
			Expect(err).To(Equal(internal.ErrExpenseAlreadyDecided))

			stored, _ := repo.GetByID(expID)
			Expect(*stored.Comments).To(Equal("duplicate"))
		})
	})

	Describe("ListOwnExpenses", func() {
		It("round-trips a submission with a fresh id and pending status", func() {
			exp, err := service.SubmitExpense(employee.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())

			listed, err := service.ListOwnExpenses(employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listed).To(HaveLen(1))
			Expect(listed[0].ID).To(Equal(exp.ID))
			Expect(listed[0].Status).To(Equal(expense.StatusPending))
		})

		It("includes decided expenses, unlike the approval queue", func() {
			exp, err := service.SubmitExpense(employee.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			Expect(service.ApproveExpense(manager.ID, manager.Role, exp.ID, expense.ApproveExpenseDTO{})).To(Succeed())

			listed, err := service.ListOwnExpenses(employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listed).To(HaveLen(1))
			Expect(listed[0].Status).To(Equal(expense.StatusApproved))
		})

		It("never includes another user's expenses", func() {
			_, err := service.SubmitExpense(worker.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())

			listed, err := service.ListOwnExpenses(employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listed).To(BeEmpty())
		})
	})

	Describe("GetExpense", func() {
		var expID int64

		BeforeEach(func() {
			exp, err := service.SubmitExpense(employee.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			expID = exp.ID
		})

		It("lets the owner read their own expense", func() {
			resp, err := service.GetExpense(employee.ID, employee.Role, expID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ID).To(Equal(expID))
			Expect(resp.SubmitterName).To(Equal("Evan Employee"))
		})

		It("lets a covering role read it", func() {
			resp, err := service.GetExpense(manager.ID, manager.Role, expID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.SubmitterRole).To(Equal(role.Employee))
		})

		It("denies a peer", func() {
			_, err := service.GetExpense(worker.ID, worker.Role, expID)
			Expect(err).To(Equal(internal.ErrNotAuthorizedToDecide))
		})

		It("lets the admin read anything", func() {
			_, err := service.GetExpense(admin.ID, admin.Role, expID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Dashboard", func() {
		BeforeEach(func() {
			_, err := service.SubmitExpense(employee.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			_, err = service.SubmitExpense(worker.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			_, err = service.SubmitExpense(manager.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			_, err = service.SubmitExpense(director.ID, validSubmission())
			Expect(err).NotTo(HaveOccurred())
		})

		It("shows a manager their queue of employee submissions", func() {
			view, err := service.Dashboard(manager.ID, manager.Role)
			Expect(err).NotTo(HaveOccurred())

			Expect(view.OwnSubmissions).To(HaveLen(1))
			Expect(view.ApprovalQueue).To(HaveLen(1))
			Expect(view.ApprovalQueue[0].Role).To(Equal(role.Employee))
			Expect(view.ApprovalQueue[0].Expenses).To(HaveLen(2))
			Expect(view.FullOverview).To(BeEmpty())
		})

		It("never surfaces the viewer's own expense in their queue", func() {
			view, err := service.Dashboard(director.ID, director.Role)
			Expect(err).NotTo(HaveOccurred())

			for _, group := range view.ApprovalQueue {
				for _, e := range group.Expenses {
					Expect(e.UserID).NotTo(Equal(director.ID))
				}
			}
		})

		It("gives the admin the full overview", func() {
			view, err := service.Dashboard(admin.ID, admin.Role)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.FullOverview).To(HaveLen(4))
		})

		It("reflects a decision on the next render", func() {
			view, err := service.Dashboard(manager.ID, manager.Role)
			Expect(err).NotTo(HaveOccurred())
			target := view.ApprovalQueue[0].Expenses[0]

			err = service.ApproveExpense(manager.ID, manager.Role, target.ID, expense.ApproveExpenseDTO{})
			Expect(err).NotTo(HaveOccurred())

			view, err = service.Dashboard(manager.ID, manager.Role)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.ApprovalQueue[0].Expenses).To(HaveLen(1))
			Expect(view.ApprovalQueue[0].Expenses[0].ID).NotTo(Equal(target.ID))
		})
	})
})
