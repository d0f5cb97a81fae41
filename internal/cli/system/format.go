package system

import "fmt"

func streakCount(n int) string {
	if n == 1 {
		return "1 streak"
	}
	return fmt.Sprintf("%d streaks", n)
}
