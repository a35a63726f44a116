package expense

import (
	"github.com/frahmantamala/expensepro/internal/role"
)

// Submitter is the slice of the user directory the views need: enough to
// group a queue by role and label each row.
type Submitter struct {
	ID   int64
	Name string
	Role role.Role
}

// ExpenseResponse is an expense decorated with its submitter, which is what
// the dashboard renders.
type ExpenseResponse struct {
	Expense
	SubmitterName string    `json:"submitter_name,omitempty"`
	SubmitterRole role.Role `json:"submitter_role,omitempty"`
}

// RoleGroup is one section of the approval queue: every pending expense
// submitted by holders of one role.
type RoleGroup struct {
	Role     role.Role         `json:"role"`
	Expenses []ExpenseResponse `json:"expenses"`
}

// DashboardView is the whole read model for one viewer. Everything here is
// recomputed from storage on every request; nothing is cached between
// mutations.
type DashboardView struct {
	OwnSubmissions []ExpenseResponse `json:"own_submissions"`
	ApprovalQueue  []RoleGroup       `json:"approval_queue"`
	FullOverview   []ExpenseResponse `json:"full_overview,omitempty"`
}

// ComputeViews derives the three dashboard sections from the full expense
// list. It is a pure function of its inputs:
//
//   - own submissions: every expense the viewer submitted, any status
//   - approval queue: pending expenses from OTHER users whose role the
//     viewer's role may decide on, grouped by submitter role in fixed
//     display order; empty groups are dropped
//   - full overview: all expenses, admin only
//
// Within each section the input order is preserved, so two expenses keep
// their relative order wherever they both appear.
func ComputeViews(viewerID int64, viewerRole role.Role, h role.Hierarchy, expenses []*Expense, users map[int64]Submitter) DashboardView {
	view := DashboardView{
		OwnSubmissions: []ExpenseResponse{},
		ApprovalQueue:  []RoleGroup{},
	}

	for _, e := range expenses {
		if e.UserID == viewerID {
			view.OwnSubmissions = append(view.OwnSubmissions, decorate(e, users))
		}
	}

	for _, groupRole := range role.DisplayOrder() {
		if !h.CanDecide(viewerRole, groupRole) {
			continue
		}

		var group []ExpenseResponse
		for _, e := range expenses {
			if e.Status != StatusPending {
				continue
			}
			// A viewer never decides on their own submission, whatever
			// their role says about the role they hold.
			if e.UserID == viewerID {
				continue
			}
			sub, ok := users[e.UserID]
			if !ok || sub.Role != groupRole {
				continue
			}
			group = append(group, decorate(e, users))
		}

		if len(group) > 0 {
			view.ApprovalQueue = append(view.ApprovalQueue, RoleGroup{
				Role:     groupRole,
				Expenses: group,
			})
		}
	}

	if viewerRole == role.Admin {
		view.FullOverview = make([]ExpenseResponse, 0, len(expenses))
		for _, e := range expenses {
			view.FullOverview = append(view.FullOverview, decorate(e, users))
		}
	}

	return view
}

func decorate(e *Expense, users map[int64]Submitter) ExpenseResponse {
	resp := ExpenseResponse{Expense: *e}
	if sub, ok := users[e.UserID]; ok {
		resp.SubmitterName = sub.Name
		resp.SubmitterRole = sub.Role
	}
	return resp
}
