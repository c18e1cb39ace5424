// Package snapshot is the synchronization layer between the repository
// and external readers. It caches a point-in-time view of devices, users
// and settings, coalesces concurrent refreshes into a single repository
// read, and republishes only when the view actually changed.
package snapshot
