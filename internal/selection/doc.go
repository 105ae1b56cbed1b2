// Package selection decides which coders become a recording's first and
// second annotation pass.
//
// Candidates are filtered twice: reserved reviewer aliases (spot-check and
// test accounts) are rejected by name, then coders below the completeness
// bar are dropped. The survivors are shuffled with an injected random source
// and the head of the permutation fills the two passes; everything filtered
// or discarded is reported for the batch audit trail.
package selection
