package utils

import "log"

// GoSafe runs fn in a new goroutine and recovers from panics so a single bad
// news item or request cannot take the worker down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v", r)
			}
		}()
		fn()
	}()
}
