package gateway

// Code is the status code returned by the gateway for request and verify calls.
type Code int

// CodeSuccess is the only code that means the operation succeeded.
const CodeSuccess Code = 100

var codeMessages = map[Code]string{
	-9:  "validation error",
	-10: "merchant ip or merchant id is not valid",
	-11: "merchant id is not active, contact support",
	-12: "too many attempts in a short period",
	-15: "terminal is suspended, contact support",
	-16: "merchant verification level is lower than silver",
	100: "operation succeeded",
	-30: "floating shared settlement is not allowed",
	-31: "add the settlement bank account to the panel, shared settlement values are not valid",
	-32: "wages are not valid, total floating wages exceed the maximum amount",
	-33: "the given percentages are not valid",
	-34: "amount is larger than the total transaction",
	-35: "too many shared settlement receivers",
	-40: "invalid extra params, expire_in is not valid",
	-50: "paid amount differs from the verify amount",
	-51: "payment failed",
	-52: "unexpected error, contact support",
	-53: "authority does not belong to this merchant",
	-54: "authority is not valid",
	101: "transaction already verified",
}

func (c Code) IsSuccess() bool {
	return c == CodeSuccess
}

func (c Code) String() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}
