package testkit

import (
	"github.com/stretchr/testify/assert"
)

const arraysMismatch = "arrays did not match"

// AssertMatchingArrays asserts that got holds the same elements as want in
// the same order. The first mismatching index is reported.
func AssertMatchingArrays[E any](t TestingT, want, got []E, msgAndArgs ...any) bool {
	t.Helper()

	msg := message(arraysMismatch, msgAndArgs...)
	if len(want) != len(got) {
		t.Errorf("%s\nexpected length %d but was %d\n%#v expected but was\n%#v\n%s",
			msg, len(want), len(got), want, got, diff(want, got))
		return false
	}
	for i := range want {
		if !assert.ObjectsAreEqual(want[i], got[i]) {
			t.Errorf("%s\n%#v expected but was\n%#v\nmismatch at index %d\n%s",
				msg, want, got, i, diff(want[i], got[i]))
			return false
		}
	}
	return true
}

// AssertMatchingArraysUnsorted asserts that want and got have the same
// length and every element of want occurs in got, in any order.
// Multiplicity is not compared.
func AssertMatchingArraysUnsorted[E any](t TestingT, want, got []E, msgAndArgs ...any) bool {
	t.Helper()

	msg := message(arraysMismatch, msgAndArgs...)
	if len(want) != len(got) {
		t.Errorf("%s\nexpected length %d but was %d\n%#v expected but was\n%#v",
			msg, len(want), len(got), want, got)
		return false
	}
	for _, w := range want {
		if !contains(got, w) {
			t.Errorf("%s\n%#v expected but was\n%#v\nmissing %#v", msg, want, got, w)
			return false
		}
	}
	return true
}

func contains[E any](haystack []E, needle E) bool {
	for _, h := range haystack {
		if assert.ObjectsAreEqual(needle, h) {
			return true
		}
	}
	return false
}
