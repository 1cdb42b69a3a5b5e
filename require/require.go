// Package require is the subset of github.com/alecthomas/assert used by tests
// in this module, with the *testing.T-compatible interface spelled out.
// alecthomas/assert already stops the test on failure (calls t.FailNow()),
// so the functions here are plain pass-throughs.
package require

import "github.com/alecthomas/assert"

// TestingT is an interface wrapper around *testing.T
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
}

// NoError stops the test if err is not nil.
//
//	lib, err := catalog.Open(path)
//	require.NoError(t, err)
func NoError(t TestingT, err error, msgAndArgs ...interface{}) {
	assert.NoError(t, err, msgAndArgs...)
}

// Error stops the test if err is nil
func Error(t TestingT, err error, msgAndArgs ...interface{}) {
	assert.Error(t, err, msgAndArgs...)
}

// Equal stops the test if expected and actual are not equal
func Equal(t TestingT, expected interface{}, actual interface{}, msgAndArgs ...interface{}) {
	assert.Equal(t, expected, actual, msgAndArgs...)
}

// Len stops the test if object doesn't have a given length
func Len(t TestingT, object interface{}, length int, msgAndArgs ...interface{}) {
	assert.Len(t, object, length, msgAndArgs...)
}

func True(t TestingT, value bool, msgAndArgs ...interface{}) {
	assert.True(t, value, msgAndArgs...)
}

func False(t TestingT, value bool, msgAndArgs ...interface{}) {
	assert.False(t, value, msgAndArgs...)
}
