package m68k

import (
	"os"

	"github.com/rs/zerolog"
)

// logger is the package-level structured logger for diagnostics emitted by
// the CPU core (address errors, exception dispatch). Hosts that want to
// silence or redirect it can reassign it before calling New.
var logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "m68k").Logger()
