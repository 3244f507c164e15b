// Package guard keeps the spicetify patcher in step with the installed
// Spotify client.
//
// A run inspects the patcher's config-xpui.ini and the guard's own cache
// record, decides on one of a fixed set of plans and, when corrective action
// is needed, drives the patcher through a short command sequence:
//
//	not installed          -> skip
//	applied, match, fresh  -> skip
//	applied, match, stale  -> refresh the cache only
//	never applied          -> stop app, backup, apply, restart
//	version drift          -> stop app, restore backup, backup, apply, restart
//
// Decide is a pure function of its inputs so the decision table can be tested
// without touching the filesystem. Guard wires it to the runner, the cache
// file and the log.
package guard
