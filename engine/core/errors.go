package core

import (
	"errors"
)

var (
	// ErrSwapchainBooting signals that the frame was skipped because the
	// swapchain is being (or was just) recreated. Not a failure.
	ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
)
