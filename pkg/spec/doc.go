// Package spec defines the declarative UI tree that a generative model emits:
// a graph of typed elements rooted at one id, plus a shared state tree that
// element props bind to through slash-delimited paths.
//
// A Tree is a materialized snapshot. It is rebuilt from scratch on every
// streamed update and is never patched in place by the pipeline; every stage
// clones before it writes.
package spec
