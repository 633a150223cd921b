// Package models defines the core domain models for KuriHub.
//
// # Models
//
//   - User: an identity record — a real account or a placeholder ("dummy")
//     member holding a seat in a scheme
//   - Scheme: the aggregate root — a rotating-savings (kuri) group with its
//     membership, per-month payments, winners, and nomination history
//   - Payment: one member's contribution status for one month
//   - Winner: the member entitled to the pooled amount for one month
//   - Nomination: a hand-off proposal raised by the current winner, resolved
//     by the scheme admin
//
// # Design Principles
//
// 1. **Document-shaped aggregate**: a Scheme carries its payments, winners,
// and nominations inline. Mutations read the whole document, modify it in
// memory, and write it back; the store never merges element-wise.
// 2. **Avoid circular references**: membership and ownership use ID strings,
// never pointers to User.
// 3. **Dangling IDs are tolerated**: a Scheme may reference member IDs with no
// surviving User record; roster resolution synthesizes placeholders for them.
package models
