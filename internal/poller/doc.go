/*
Package poller implements the orchestrator loop: ping, then commit; SSH
reachability, then commit; SSH profile and repair, then commit; sleep.
Forever, until Stop is called. Period is wall-clock and not
drift-compensated — an overrunning cycle simply delays the next sleep.
*/
package poller
