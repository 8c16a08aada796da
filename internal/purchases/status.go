package purchases

import "github.com/artha-erp/artha/internal/shared"

// validateTransition enforces the purchase business rules. Transitions
// between defined states are otherwise permitted.
func validateTransition(current, next Status) error {
	if next == StatusCancelled && current == StatusReceived {
		return shared.NewBusinessRuleError("cannot cancel an already-received purchase")
	}
	return nil
}

// stockEffect reports whether moving from current to next increments stock.
// Gating on current != next keeps repeated transitions free of double
// increments.
func stockEffect(current, next Status) bool {
	return next == StatusReceived && current != StatusReceived
}
