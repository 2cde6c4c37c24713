/*
Package log provides structured logging for fleetd using zerolog.

Init configures the global Logger from a Config (level, JSON vs console
format, output writer); the CLI sets the level from -d and the output to
the configured log file, and leaves console format on. WithComponent and WithHost derive
child loggers carrying a component or host field, used by the poller and
probe stages to attribute log lines.

The status subcommand calls InitNull instead of Init: the read-only path
must not mutate the daemon's configured log file.
*/
package log
