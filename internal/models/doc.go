// Package models defines the core domain models for the point-of-sale ledger.
//
// # Ledger Document
//
// All durable state lives in a single Snapshot:
//   - Product: catalog item with the authoritative stock count
//   - Sale: immutable record of a committed checkout
//   - StockLogEntry: append-only audit trail of stock movements
//   - User: operator account with an Admin or Staff role
//   - BusinessProfile: descriptive data printed on receipts and reports
//
// The Snapshot is persisted and replicated as one JSON document. It is never
// written partially.
//
// # Working Set
//
// CartLine is a product snapshot plus a quantity. Lines live in a cart session
// until checkout copies them into a Sale.
//
// # Design Principles
//
// 1. **Whole-document persistence**: every mutation re-encodes the full Snapshot
// 2. **Validated boundaries**: DecodeSnapshot rejects malformed documents with ErrCorruptData
// 3. **Decimal money**: prices and totals use shopspring/decimal, never float64
// 4. **Value copies**: Clone returns a deep copy safe to mutate independently
package models
