package core

import (
	"fmt"
	"strings"
)

// Actor is the already-authenticated user performing an action.
type Actor struct {
	UserID int
	Role   string
}

// QuotationAction is an edge in the quotation state machine.
type QuotationAction string

const (
	ActionSend    QuotationAction = "send"
	ActionApprove QuotationAction = "approve"
	ActionReject  QuotationAction = "reject"
	ActionConvert QuotationAction = "convert"
)

// NextStatus returns the status reached by applying action to from.
// Edges outside the table return an *InvalidTransitionError.
func NextStatus(from QuotationStatus, action QuotationAction) (QuotationStatus, error) {
	switch action {
	case ActionSend:
		if from == QuotationDraft {
			return QuotationSent, nil
		}
	case ActionApprove:
		if from == QuotationSent {
			return QuotationApproved, nil
		}
	case ActionReject:
		if from == QuotationDraft || from == QuotationSent {
			return QuotationRejected, nil
		}
	case ActionConvert:
		if from == QuotationApproved {
			return QuotationConverted, nil
		}
	default:
		return "", validationErrorf("unknown quotation action %q", action)
	}
	return "", &InvalidTransitionError{Entity: "quotation", From: string(from), Action: string(action)}
}

// CanEditLines reports whether lines, discount and VAT may still change.
func CanEditLines(s QuotationStatus) bool {
	switch s {
	case QuotationDraft, QuotationSent:
		return true
	case QuotationApproved, QuotationRejected, QuotationConverted:
		return false
	}
	return false
}

// ApprovalPolicy is the configured set of roles allowed to approve quotations.
type ApprovalPolicy struct {
	roles map[string]struct{}
}

// DefaultApproverRoles are used when no roles are configured.
var DefaultApproverRoles = []string{"DIRECTOR", "PROJECT_MANAGER"}

// NewApprovalPolicy builds a policy from role names. Matching is case-insensitive.
func NewApprovalPolicy(roles []string) ApprovalPolicy {
	if len(roles) == 0 {
		roles = DefaultApproverRoles
	}
	p := ApprovalPolicy{roles: make(map[string]struct{}, len(roles))}
	for _, r := range roles {
		if r = strings.ToUpper(strings.TrimSpace(r)); r != "" {
			p.roles[r] = struct{}{}
		}
	}
	return p
}

// CanApprove reports whether the actor's role is in the approver set.
func (p ApprovalPolicy) CanApprove(a Actor) bool {
	_, ok := p.roles[strings.ToUpper(strings.TrimSpace(a.Role))]
	return ok
}

// checkTransition validates an action against the current status and, for approve,
// the actor's role. Status is checked first so a wrong-status approve is always an
// InvalidTransition regardless of who asked.
func (p ApprovalPolicy) checkTransition(id int, from QuotationStatus, action QuotationAction, actor Actor) (QuotationStatus, error) {
	next, err := NextStatus(from, action)
	if err != nil {
		if ite, ok := err.(*InvalidTransitionError); ok {
			ite.ID = id
		}
		return "", err
	}
	if action == ActionApprove && !p.CanApprove(actor) {
		return "", fmt.Errorf("%w: role %q may not approve quotation %d", ErrForbidden, actor.Role, id)
	}
	return next, nil
}
