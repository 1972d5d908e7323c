package planeverb

import "github.com/planeverb/planeverb-go/internal/pverr"

// ErrorKind classifies the two ways engine/DSP construction can fail.
type ErrorKind = pverr.Kind

const (
	InvalidConfig    = pverr.InvalidConfig
	NotEnoughMemory  = pverr.NotEnoughMemory
)

// IsErrorKind reports whether err (as returned by NewEngine or
// NewDSPContext) carries the given ErrorKind.
func IsErrorKind(err error, kind ErrorKind) bool { return pverr.Is(err, kind) }
