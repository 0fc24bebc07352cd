package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// FormatLoginAlert tells the operator the token pair needs a manual login.
func FormatLoginAlert(symbol string, cause error, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚠️ <b>%s poller needs re-authentication</b>\n\n", html.EscapeString(symbol)))
	b.WriteString(fmt.Sprintf("Time: %s\n", at.Format("2006-01-02 15:04")))
	if cause != nil {
		b.WriteString(fmt.Sprintf("Cause: %s\n", html.EscapeString(cause.Error())))
	}
	b.WriteString("\nPrices are not being recorded until the credential file holds a valid refresh token.")
	return b.String()
}
