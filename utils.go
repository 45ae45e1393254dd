/* utils.go
 * Utility functions used across the application
 * Authors: Zachary Bower
 */

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDurationFlag converts a duration flag value into a time.Duration
// Preconditions: Receives a flag value that is empty, a plain number of seconds (e.g. "300")
// or a Go duration string (e.g. "5m"), and a fallback for the empty case
// Postconditions: Returns the parsed duration or an error if the value is neither form
func parseDurationFlag(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("duration must be positive, got %q", value)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", value)
	}
	return d, nil
}
