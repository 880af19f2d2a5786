package orders

// StepCount is the fixed length of the fulfillment pipeline.
const StepCount = 7

// Canonical step numbers. Steps complete strictly in this order.
const (
	StepPaymentVerified   = 1
	StepItemStatusUpdated = 2
	StepBuyerCalled       = 3
	StepSellerCalled      = 4
	StepOrderDelivered    = 5
	StepPaymentReleased   = 6
	StepOrderComplete     = 7
)

// PayoutUnlockStep is the step the order must have reached before a seller
// payout can be requested.
const PayoutUnlockStep = StepPaymentReleased

var stepNames = [StepCount]string{
	"Payment Verified",
	"Item Status Updated",
	"Buyer Called",
	"Seller Called",
	"Order Delivered",
	"Payment Released",
	"Order Complete",
}

// StepName returns the display name for a 1-based step number.
func StepName(number int) string {
	if number < 1 || number > StepCount {
		return ""
	}
	return stepNames[number-1]
}
