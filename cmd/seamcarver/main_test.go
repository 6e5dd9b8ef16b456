package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/esimov/seamcarver"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: missing.jpg", seamcarver.ErrOpenSource), exitInput},
		{fmt.Errorf("%w: bad header", seamcarver.ErrDecode), exitInput},
		{fmt.Errorf("%w: permission denied", seamcarver.ErrCreateDestination), exitOutput},
		{fmt.Errorf("%w: short write", seamcarver.ErrEncode), exitOutput},
		{seamcarver.ErrUnsupportedFormat, exitOutput},
		{fmt.Errorf("seam 0: %w", seamcarver.ErrInvalidTrimWidth), exitCarve},
		{errors.Join(errors.New("a.jpg"), seamcarver.ErrDecode), exitInput},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, exitCode(tc.err))
		})
	}
}
