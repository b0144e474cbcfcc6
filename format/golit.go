// Copyright 2026 The ncia Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package format

import (
	"bufio"
	"fmt"
	"io"
)

// writeGoLiteral writes
//
//	(
//		[]K{
//			...
//		},
//		[]int{
//			...
//		},
//		[]V{
//			...
//		},
//	)
func writeGoLiteral[K, V any](w io.Writer, keyStarts []K, storageStarts []int, values []V, vf ValueFormatting) error {
	bw := bufio.NewWriter(w)

	var zeroK K
	var zeroV V
	_, _ = fmt.Fprintf(bw, "(\n\t[]%s{\n", typeName(zeroK))
	for _, k := range keyStarts {
		_, _ = fmt.Fprintf(bw, "\t\t%#v,\n", k)
	}
	_, _ = bw.WriteString("\t},\n\t[]int{\n")
	for _, s := range storageStarts {
		_, _ = fmt.Fprintf(bw, "\t\t%d,\n", s)
	}
	_, _ = fmt.Fprintf(bw, "\t},\n\t[]%s{\n", typeName(zeroV))
	verb := "\t\t" + vf.verb() + ",\n"
	for _, v := range values {
		_, _ = fmt.Fprintf(bw, verb, v)
	}
	_, _ = bw.WriteString("\t},\n)")

	// bufio.Writer latches the first error
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// typeName returns the Go spelling of the type of v, including interface
// element types (for which %T of a zero value would print "<nil>").
func typeName[V any](v V) string {
	if any(v) == nil {
		return fmt.Sprintf("%T", &v)[1:]
	}
	return fmt.Sprintf("%T", v)
}
