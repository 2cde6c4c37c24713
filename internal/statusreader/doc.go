/*
Package statusreader is the read-only counterpart to the Poller: it never
engages the probe pipeline and never mutates the Node Store. The status
subcommand installs a null logger before calling Read, so this package
does no logging of its own.
*/
package statusreader
