// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers environment-specific configurations, context-aware attribute extraction
// and a set of pre-built attributes for the command engine.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/graphedit/core/logger"
//
//	// Development: colored console output, debug level
//	log := logger.New(logger.WithDevelopment("graphedit"))
//
//	// Production: JSON output, info level
//	log := logger.New(
//		logger.WithProduction("graphedit"),
//		logger.WithLevel(slog.LevelWarn),
//	)
//
//	log.Info("Engine started",
//		logger.Component("engine"),
//		logger.Event("startup"),
//	)
//
// # Context-Aware Logging
//
// Extractors add attributes taken from the context to every *Context call:
//
//	log := logger.New(
//		logger.WithProduction("graphedit"),
//		logger.WithContextValue("session_id", sessionKey{}),
//	)
//	log.InfoContext(ctx, "Command executed")
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for zero values so they can be passed
// unconditionally:
//
//	log.Error("Command failed",
//		logger.CommandType(cmd.Type),
//		logger.CommandID(cmd.ID),
//		logger.Source(string(cmd.Source)),
//		logger.Error(err), // dropped when err == nil
//		logger.Elapsed(start),
//	)
//
//	log.Debug("Entity changed", logger.EntityID("node", "n1")) // node_id=n1
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//
// Use Discard for a logger that drops everything.
package logger
