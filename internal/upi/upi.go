package upi

import (
	"net/url"
	"strconv"
	"strings"
)

// Platform is the caller-derived hint for which deep-link flavor to build.
// Derivation happens at the HTTP layer; nothing in this package inspects
// the environment.
type Platform int

const (
	PlatformOther Platform = iota
	PlatformAndroid
	PlatformIOS
)

// GPayPackage is the intent target for Android devices.
const GPayPackage = "com.google.android.apps.nbu.paisa.user"

func (p Platform) String() string {
	switch p {
	case PlatformAndroid:
		return "android"
	case PlatformIOS:
		return "ios"
	default:
		return "other"
	}
}

// DetectPlatform maps a User-Agent string to a Platform hint via substring
// lookup.
func DetectPlatform(userAgent string) Platform {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "android"):
		return PlatformAndroid
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return PlatformIOS
	default:
		return PlatformOther
	}
}

// TransactionNote builds the note shown in the payment app. The
// "from {name}" clause is dropped when the payer left the name empty.
func TransactionNote(payerName string) string {
	if strings.TrimSpace(payerName) == "" {
		return "Gift contribution"
	}
	return "Gift contribution from " + payerName
}

func payParams(payeeID string, amount float64, payerName string) url.Values {
	params := url.Values{}
	params.Set("pa", payeeID)
	params.Set("am", strconv.FormatFloat(amount, 'f', -1, 64))
	params.Set("tn", TransactionNote(payerName))
	params.Set("cu", "INR")
	return params
}

// BuildPaymentLink constructs the payment-app invocation string for the
// given platform. Pure string construction; invoking the link is the
// caller's job, and a failed invocation should fall back to the generic
// variant from BuildGenericLink.
func BuildPaymentLink(payeeID string, amount float64, payerName string, platform Platform) string {
	if platform == PlatformAndroid {
		return BuildIntentLink(payeeID, amount, payerName)
	}
	return BuildGenericLink(payeeID, amount, payerName)
}

// BuildGenericLink produces the scheme-based upi://pay link understood by
// any installed UPI app.
func BuildGenericLink(payeeID string, amount float64, payerName string) string {
	return "upi://pay?" + payParams(payeeID, amount, payerName).Encode()
}

// BuildIntentLink produces the Android intent-style link targeting the
// well-known GPay package.
func BuildIntentLink(payeeID string, amount float64, payerName string) string {
	return "intent://pay?" + payParams(payeeID, amount, payerName).Encode() +
		"#Intent;scheme=upi;package=" + GPayPackage + ";end"
}
