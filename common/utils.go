package common

import "github.com/go-gl/mathgl/mgl64"

type Vec2 = mgl64.Vec2

type IT interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Prev returns the previous index of a ring of n elements.
func Prev[T IT](i, n T) T {
	if i-1 >= 0 {
		return i - 1
	}
	return n - 1
}

// Next returns the next index of a ring of n elements.
func Next[T IT](i, n T) T {
	if i+1 < n {
		return i + 1
	}
	return 0
}

// AssertTrue panics with an ErrInvariant error when ok is false.
func AssertTrue(ok bool, format string, args ...any) {
	if !ok {
		panic(Invariantf(format, args...))
	}
}

// Vec2Of converts a lattice point to a float vector.
func Vec2Of(p Point) Vec2 {
	return Vec2{float64(p.X), float64(p.Y)}
}
