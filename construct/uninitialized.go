package construct

// UninitializedFill constructs a copy of v into every slot of dst.
func UninitializedFill[T any](dst []T, v T) error {
	_, err := UninitializedFillN(dst, len(dst), v)
	return err
}

// UninitializedFillN constructs n copies of v at the front of dst and returns
// the number of slots filled. It panics if n exceeds len(dst).
func UninitializedFillN[T any](dst []T, n int, v T) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	dst = dst[:n]
	if IsTrivial[T]() {
		fill(dst, v)
		return n, nil
	}
	return constructRange(dst, func(int) T { return v })
}

// UninitializedCopy constructs dst[i] from src[i] for the common prefix of the
// two slices and returns the number of elements copied.
func UninitializedCopy[T any](dst, src []T) (int, error) {
	n := min(len(dst), len(src))
	if n == 0 {
		return 0, nil
	}
	if IsTrivial[T]() {
		return copy(dst, src[:n]), nil
	}
	src = src[:n]
	return constructRange(dst[:n], func(i int) T { return src[i] })
}

// UninitializedCopyBytes is the byte specialization of UninitializedCopy.
func UninitializedCopyBytes(dst, src []byte) int {
	return copy(dst, src)
}

// UninitializedCopyRunes is the rune specialization of UninitializedCopy.
func UninitializedCopyRunes(dst, src []rune) int {
	return copy(dst, src)
}

// fill writes v into every slot of s by doubling memmoves.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for filled := 1; filled < len(s); filled *= 2 {
		copy(s[filled:], s[:filled])
	}
}
