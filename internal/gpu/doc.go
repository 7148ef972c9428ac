// Package gpu finds idle NVIDIA GPUs.
//
// The device list comes from the XML report of `nvidia-smi -q -x`. GPUs
// are numbered in document order and a GPU counts as free when no
// process is running on it.
package gpu
