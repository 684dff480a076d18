package funnel_test

import (
	"fmt"

	"github.com/matzehuels/chartgeom/pkg/layout/funnel"
)

func ExampleWidths() {
	widths, _, err := funnel.Widths([]float64{100, 80, 50, 20}, funnel.BaseFirst, 0)
	if err != nil {
		panic(err)
	}
	fmt.Println(widths)
	// Output: [1 0.8 0.5 0.2]
}
