package game

const (
	PointsFirstTry   = 2
	PointsSecondTry  = 1
	PointsShowAnswer = 0
)

// PerfectScore is the reward gate for a level of n challenges.
func PerfectScore(n int) int {
	if n <= 0 {
		return 0
	}
	return PointsFirstTry * n
}

func sumPoints(points []int) int {
	total := 0
	for _, p := range points {
		total += p
	}
	return total
}
