// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ncia

// fixtures store each key as its own value, so lookups are easy to check.
var (
	array1 = NewInt([]uint32{0, 10, 100}, []int{0, 3, 5}, []uint32{0, 1, 2, 10, 11, 100})
	array2 = NewInt([]uint32{100, 200, 500}, []int{0, 2, 3}, []uint32{100, 101, 200, 500, 501, 502})
	array3 = NewInt([]int32{-500, -490, -400}, []int{0, 3, 5}, []int32{-500, -499, -498, -490, -489, -400})
	array4 = NewInt([]int32{-500, -2, 499}, []int{0, 2, 7}, []int32{-500, -499, -2, -1, 0, 1, 2, 499, 500})
	// keys at both ends of the int8 domain
	array5 = NewInt([]int8{-128, 126}, []int{0, 2}, []int8{-128, -127, 126, 127})
)
