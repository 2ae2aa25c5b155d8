package ports

import "github.com/bft-labs/meshscreen/pkg/log"

// Logger is the structured logger used throughout the engine.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors, re-exported so internal packages need a single import.
var (
	String   = log.String
	Int      = log.Int
	Int64    = log.Int64
	Uint32   = log.Uint32
	Float64  = log.Float64
	Bool     = log.Bool
	Duration = log.Duration
	Stringer = log.Stringer
	Err      = log.Err
	Any      = log.Any
)
