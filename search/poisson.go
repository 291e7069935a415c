package search

import "math"

// lnFactorial returns ln(n!) via the log-gamma function.
func lnFactorial(n int) float64 {
	if n <= 1 {
		return 0
	}
	v, _ := math.Lgamma(float64(n) + 1)
	return v
}

// poissonScore estimates the significance of matching k peaks by chance
// when lambda matches are expected, as -log10 of the upper-tail probability
// P(X >= k). Larger is better; zero matches score zero.
func poissonScore(k int, lambda float64) float64 {
	if k <= 0 {
		return 0
	}
	if lambda <= 0 {
		lambda = 1e-3
	}

	// P(X >= k) = 1 - sum_{i<k} e^-l * l^i / i!, accumulated in log space
	// to survive large lambda.
	tail := 0.0
	for i := 0; i < k; i++ {
		tail += math.Exp(-lambda + float64(i)*math.Log(lambda) - lnFactorial(i))
	}
	survival := 1 - tail
	if survival < 1e-300 {
		// Beyond float resolution; approximate the tail by its leading
		// term at k.
		return -(-lambda + float64(k)*math.Log(lambda) - lnFactorial(k)) / math.Ln10
	}
	return -math.Log10(survival)
}
