/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"net/http"
	"time"
)

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

// writeBody sends data with the given status, reports write failures on
// errs and logs what was served.
func writeBody(cfg *Config, w http.ResponseWriter, r *http.Request, errs chan<- error, status int, what string, startTime time.Time, data []byte) {
	w.WriteHeader(status)

	written, err := w.Write(data)
	if err != nil {
		reportError(errs, err)

		return
	}

	logf(cfg, "SERVE: %s (%s) to %s in %s",
		what,
		humanReadableSize(int64(written)),
		realIP(r),
		time.Since(startTime).Round(time.Microsecond),
	)
}

// reportError hands err to the server's error log without blocking the
// handler when the log is backed up.
func reportError(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}
