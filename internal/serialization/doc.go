// Package serialization provides the .vjt file format for jagged tensors.
//
// A .vjt file stores the four arrays of a jagged tensor in their GPU storage
// layout, so a reader can upload sections without repacking:
//
//	Format Structure:
//	  [0x00: Magic "VXJT"]
//	  [0x04: Version (uint32 LE)]
//	  [0x08: Flags (uint32 LE)]
//	  [0x0C: Reserved]
//	  [0x10: Header Size (uint64 LE)]
//	  [0x18: Data Size (uint64 LE)]
//	  [0x20: SHA-256 of the data section]
//	  [0x40: Header: JSON metadata]
//	  [Section data: 64-byte aligned]
//
// Sections are "data" (vec3<i32>, 16-byte stride), "batch_idx" (u32),
// "list_idx" (vec3<u32>, 16-byte stride) and "offsets" (u32, END offsets).
//
// Example usage:
//
//	if err := serialization.WriteFile("points.vjt", t, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	f, err := serialization.ReadFile("points.vjt", serialization.ReaderOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(f.Header.NumElements, f.Tensor.ListSizes())
package serialization
