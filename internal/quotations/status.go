package quotations

import "github.com/artha-erp/artha/internal/shared"

// validateTransition enforces the quotation business rules. Transitions
// between defined states are otherwise permitted.
func validateTransition(current, next Status) error {
	if next == StatusRejected && current == StatusAccepted {
		return shared.NewBusinessRuleError("cannot reject an already-accepted quotation")
	}
	return nil
}

// stockEffect reports whether moving from current to next decrements stock.
// Gating on current != next keeps repeated transitions free of double
// decrements.
func stockEffect(current, next Status) bool {
	return next == StatusAccepted && current != StatusAccepted
}
