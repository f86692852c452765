package cmd

import "time"

func nowDateString() string {
	return time.Now().UTC().Format("2006-01-02")
}
