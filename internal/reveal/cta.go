package reveal

import (
	"net/url"
	"strings"
)

// WhatsAppLink builds the wa.me deep link for the VIP group call-to-action.
// The message is percent-encoded the way browsers encode URI components.
func WhatsAppLink(number, message string) string {
	return "https://wa.me/" + number + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
