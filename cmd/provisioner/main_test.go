package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	saved := os.Args
	t.Cleanup(func() { os.Args = saved })
	os.Args = append([]string{"provisioner"}, args...)
}

func TestMain_Version(t *testing.T) {
	withArgs(t, "--version")
	assert.Equal(t, 0, Main())
}

func TestMain_ErrorExitsWithOne(t *testing.T) {
	tests := map[string][]string{
		"unknown flag":        {"--bogus"},
		"positional argument": {"extra"},
		"invalid count":       {"--count=0"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			withArgs(t, args...)
			assert.Equal(t, 1, Main())
		})
	}
}
