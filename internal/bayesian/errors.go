package bayesian

import "fmt"

var errEmptyInput = fmt.Errorf("no feature vectors provided for Bayesian fitting")

func errUnknownScheme(scheme string) error {
	return fmt.Errorf("unknown normalization scheme: %s", scheme)
}
