// Package zoh implements zero-order-hold sampling on a fixed absolute
// time grid.
//
// A [Schedule] enumerates the boundaries k*Period, k = 0, 1, 2, ... and
// hands them out in order; it never counts caller steps, so variable step
// sizes cannot make it drift. A [Hold] is the register refreshed at those
// boundaries and read-only in between.
package zoh
