/*
Package config loads the [core] INI section controlling fleetd's slice
login, filesystem layout, probe concurrency, and cycle timing. Relative
paths in the file are resolved against the caller-supplied base directory
(the process's invocation directory); absolute paths are accepted as-is.
*/
package config
