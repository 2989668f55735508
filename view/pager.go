package view

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePage validates a page-jump input against the page count
func ParsePage(input string, totalPages int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > totalPages {
		return 0, &InputError{
			Input:  input,
			Reason: fmt.Sprintf("Please enter a page number between 1 and %d", max(totalPages, 1)),
		}
	}
	return n, nil
}
