package telegram

import (
	"fmt"
	"time"
)

// FormatErrorAlertMessage builds a Markdown ops alert for service failures.
func FormatErrorAlertMessage(t time.Time, errType, errMsg string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s
`, t.Format("2006-01-02 15:04:05"), errType, errMsg)
}
