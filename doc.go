// Package poolshark implements a thread-safe object pool for reusable
// container-like values: growable sequences, associative maps, character
// buffers, and reference-counted shared containers. It exists to keep
// allocator pressure flat for workloads that repeatedly construct, fill,
// consume, and discard such containers.
//
// This package holds the capability contracts (Poolable, IsoPoolable,
// RawPoolable) and the Discriminant encoding that lets a single pool slot
// serve many generic instantiations whose empty representations coincide
// in memory. The pools themselves live in the sibling packages:
//
//   - poolshark/lpool: a local (goroutine-affine) registry with wrappers
//     that return their payload on release.
//   - poolshark/gpool: a lock-free, cross-goroutine pool with weak
//     back-pointers from wrapper to pool.
//   - poolshark/rcpool: a reference-counted shared container whose pool
//     back-pointer lives inside the allocation itself.
//   - poolshark/containers: Poolable adapters for common containers.
//   - poolshark/classid: runtime assignment of the small integer class ids
//     a Discriminant embeds.
//   - poolshark/metrics: a Prometheus-backed MetricsRecorder.
package poolshark
