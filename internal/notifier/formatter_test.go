package notifier

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormatLoginAlert(t *testing.T) {
	at := time.Date(2025, 10, 15, 9, 5, 0, 0, time.Local)
	msg := FormatLoginAlert("/ZCZ25", errors.New("token refresh failed: status 400 <invalid_grant>"), at)

	for _, want := range []string{"/ZCZ25", "2025-10-15 09:05", "status 400", "&lt;invalid_grant&gt;"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q:\n%s", want, msg)
		}
	}
}
