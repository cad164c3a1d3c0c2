package main

import (
	"fmt"
	"math"
	"strconv"
)

// parseSeed interprets --seed. ok is false when the flag was not given, so the configured seed stays.
// Any int64 is a valid seed, including negative ones (--seed=-7).
func parseSeed(s string) (seed int64, ok bool, err error) {
	if s == "" {
		return 0, false, nil
	}
	seed, err = strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("Invalid seed '%v': must be an integer", s)
	}
	return seed, true, nil
}

// frameRange interprets --startframe and --endframe. segment is false when neither was given.
// An end of 0 runs through the last frame.
func frameRange(start, end int) (from, to int, segment bool) {
	if start == 0 && end == 0 {
		return 0, 0, false
	}
	if end == 0 {
		end = math.MaxInt
	}
	return start, end, true
}
