// Package logger provides structured logging for offclient using zerolog.
//
// Library packages never log unless handed a logger; they default to Nop().
// Command-line front ends build one from Config.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "offctl").WithComponent("folksonomy")
//	log.Info("login succeeded", logger.Fields("user", name))
package logger
