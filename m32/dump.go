package m32

import (
	"fmt"
	"io"
)

// Dump writes one line per field to w. List fields are written one line per
// element.
func (h *Header) Dump(w io.Writer) error {
	for _, f := range h.Fields() {
		if !f.spec.Kind.IsList() {
			if _, err := fmt.Fprintf(w, "%-30s : %v\n", f.Name(), f.Read()); err != nil {
				return err
			}
			continue
		}
		for i := range f.Len() {
			v, err := f.At(i)
			if err != nil {
				return err
			}
			label := fmt.Sprintf("%s[%d]", f.Name(), i)
			if _, err := fmt.Fprintf(w, "%-30s : %v\n", label, v); err != nil {
				return err
			}
		}
	}
	return nil
}
