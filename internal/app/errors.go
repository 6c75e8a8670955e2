package service

import (
	"errors"
)

// Sentinel error kinds for this package.
var (
	ErrNoInput  = errors.New("no input to analyze")
	ErrReadRun  = errors.New("read run input failed")
	ErrRunInput = errors.New("invalid run input")
)
