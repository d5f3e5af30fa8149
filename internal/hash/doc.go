// Package hash provides fast, hardware-accelerated hashing.
//
// Block content hashes use CRC32-Castagnoli (CRC32C), which is hardware
// accelerated on x86 (SSE4.2) and ARM (CRC extension). The hash is used for
// hashing logically-equal blocks to the same bucket, not for integrity.
package hash
