// Package store defines the document-oriented persistence boundary of the
// session core. Records live in named collections either under an explicit
// key (Put/Get/Patch) or under a store-generated id (Append). Query applies a
// small predicate language (==, <=, >=, array-contains-any) with optional
// ordering and limit, and Subscribe delivers documents appended after the
// subscription started.
//
// The package ships a volatile in-memory implementation; store/sqlite adds a
// durable backend over the same contract.
package store
