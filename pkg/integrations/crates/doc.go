// Package crates reads Cargo sparse registry indexes.
//
// # Overview
//
// A sparse index serves one text file per package over plain HTTP. The
// default is crates.io's index at https://index.crates.io; any registry
// implementing the sparse protocol can be used instead:
//
//	client := crates.NewClient("", 10*time.Second)
//	raw, err := client.Fetch(ctx, crates.DefaultIndexURL, "se/rd/serde")
//
// [Client.Fetch] has the shape of the fetch collaborator expected by
// [github.com/matzehuels/cargoquery/pkg/query.Fetcher], so a *Client can be
// handed straight to queries and the resolver.
//
// # Index URLs
//
// Cargo configuration writes sparse registries as "sparse+https://…". The
// prefix is accepted and stripped by [NormalizeIndexURL].
//
// # User-Agent
//
// crates.io asks clients to identify themselves. The client sends
// [buildinfo.UserAgent] unless another agent is configured.
//
// [buildinfo.UserAgent]: github.com/matzehuels/cargoquery/pkg/buildinfo.UserAgent
package crates
