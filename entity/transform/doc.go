/*
Package transform implements the record transformation pipeline: data paths
binding field name patterns to ordered transformer chains, and the Pipeline
that routes record fields through them.

Transformers are declared with immutable config structs (RedactWithCharConfig,
FpeConfig, ...) which are built once into executable units when a data path is
created. Pipelines are pure and synchronous: no I/O, no cross-record state,
safe for concurrent use from a worker pool.
*/
package transform
