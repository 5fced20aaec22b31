package constants

type (
	RequestSource string
	APIStatus     string
	CachePrefix   string
)

const (
	RequestSourceAPI       RequestSource = "API"
	RequestSourceWebClient RequestSource = "WEB_CLIENT"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixBan CachePrefix = "BAN_"
)

// PaymentRefAwaitingCapture prefixes the placeholder payment reference an
// entry carries until the payment collaborator captures the fee.
const PaymentRefAwaitingCapture = "awaiting_capture:"

// Payout split of a challenge bonus pool, in percent.
const (
	PayoutFirstPercent  = 50
	PayoutSecondPercent = 30
	PayoutThirdPercent  = 20
)
