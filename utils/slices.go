package utils

func Filter[T any](a []T, test func(T) bool) []T {
	b := a[:0]

	for _, x := range a {
		if test(x) {
			b = append(b, x)
		}
	}

	return b
}

// Uniq removes duplicates while keeping the first occurrence of each element.
func Uniq[T comparable](a []T) []T {
	seen := make(map[T]bool, len(a))
	res := a[:0]

	for _, x := range a {
		if !seen[x] {
			seen[x] = true
			res = append(res, x)
		}
	}

	return res
}
