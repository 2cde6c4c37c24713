/*
Package resolver maps node hostnames to IPv4 addresses in bulk, in
parallel, against a fixed upstream DNS server list rather than the OS
resolver — useful when experimental nodes live in a slice-specific zone
not in the host's own search path.

Resolution never fails loudly: a name that doesn't answer, times out, or
resolves to something other than a valid IPv4 address is simply absent
from ResolveAll's result. Callers (the Pool's merge) treat absence as
"drop this candidate".
*/
package resolver
