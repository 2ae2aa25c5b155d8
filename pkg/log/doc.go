// Package log is the structured logging abstraction shared by every
// meshscreen component.
//
// Components depend only on the [Logger] interface. The command-line tool
// wires a zerolog console writer through [NewZerologAdapter]; library users
// can plug in their own implementation or use [NoopLogger].
//
//	logger := log.NewZerologAdapter(os.Stderr, "debug")
//	logger.Info("screen on", log.Int("fps", 30))
//
// Fields are key/value pairs built with the helpers in this package:
//
//	logger.Warn("command dropped",
//	    log.String("kind", "Print"),
//	    log.Err(domain.ErrChannelFull),
//	)
package log
