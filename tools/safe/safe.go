package safe

import (
	"github.com/Hany173g/OtakuZone-sub001/logger"
)

// Go starts f on a new goroutine and recovers any panic, so a bad event
// handler or a broken connection cannot take the process down.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("recovered panic: %v", r)
			}
		}()
		f()
	}()
}
