// Package sink delivers formatted lines.
//
// A Logger owns one Formatter and one Sink:
//
//	f, _ := formatter.New(redact.DefaultFieldSet(), formatter.WithPrefix("HOLBERTON"))
//	logger, _ := sink.NewLogger("user_data", formatter.LevelInfo, f, sink.NewWriterSink(os.Stderr))
//	logger.Log(ctx, formatter.LevelInfo, "name=Bob;email=bob@x.com;age=30;")
//	// [HOLBERTON] user_data INFO 2019-11-19 18:24:25,105: name=***;email=***;age=30;
//
// The formatter can be replaced while the logger is in use, which is how
// configuration reloads take effect.
package sink
