package daylog

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05.000"
)

// formatEntry renders a single log line:
//
//	yyyy-MM-dd -- HH:mm:ss.mmm\t| TAG message\n
func formatEntry(t time.Time, sev Severity, msg string) string {
	return fmt.Sprintf("%s -- %s\t| %s%s\n",
		t.Format(dateLayout),
		t.Format(timeLayout),
		sev.Tag(),
		msg,
	)
}

func fileName(prefix, date string) string {
	return prefix + "_" + date + ".log"
}
