// Package tensor provides the dense, row-major float64 tensor shared by the
// feature pipeline.
//
// Tensors carry an explicit shape such as (batch, channel, time). Leading
// axes are treated as independent rows by the transforms, so most helpers
// here deal with selecting along an axis, swapping the two innermost axes,
// and counting rows. Tensors can also be exported to and imported from
// IEEE 754 half precision for compact storage.
package tensor
