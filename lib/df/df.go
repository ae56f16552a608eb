package df

import (
	"github.com/sirupsen/logrus"
)

// Log is the shared base log entry. The CLI replaces it during init; the
// default keeps library code usable (and quiet-ish) from tests.
var Log *logrus.Entry

func init() {
	Log = logrus.NewEntry(logrus.New())
}

//SetLog swaps in the real base entry once logging is configured
func SetLog(l *logrus.Entry) {
	if l == nil {
		return
	}
	Log = l
}
