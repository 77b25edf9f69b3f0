// Package profile manages local Profile records keyed by the external
// Clerk subject id.
//
// A profile is created lazily the first time an unseen clerkId presents a
// valid token. Two requests racing on the same first login may both attempt
// the create; the store's unique index on clerkId decides the winner and
// the loser falls back to a lookup, so at most one record ever exists per
// clerkId. There is no in-process locking around this: the store may be
// shared by several independent processes.
package profile
