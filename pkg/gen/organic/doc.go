// Package organic grows a road network outward from a single point.
//
// Growth starts with eight seed segments fanning out at 45° steps. Pending
// segments wait on a frontier ordered by priority, which is the number of
// generations between a segment and its seed. The lowest-priority segment is
// always expanded next; among equal priorities the one queued first wins.
//
// A popped segment is dropped outright if its endpoint would land within
// MergeDistance of an endpoint already accepted. Otherwise it is accepted
// and may spawn up to three children: straight ahead and 18° to either side,
// each nudged by a small random bend. A child's heading blends its parent's
// heading with the grandparent's, which keeps long roads gently curving
// rather than zig-zagging. Deeper segments are more likely to stop spawning
// and to skip individual children, and after ten generations they shorten
// to a fixed length, so the network thins out toward its edge.
//
// Generation stops when the frontier is empty or MaxSegments segments have
// been accepted.
package organic
