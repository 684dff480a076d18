package squarify_test

import (
	"fmt"

	"github.com/matzehuels/chartgeom/pkg/geom"
	"github.com/matzehuels/chartgeom/pkg/layout/squarify"
)

func ExampleSquarify() {
	tiles, err := squarify.Squarify([]float64{6, 6, 4, 3, 2, 2, 1}, geom.Rect{W: 6, H: 4}, 0)
	if err != nil {
		panic(err)
	}
	for _, r := range tiles {
		fmt.Printf("%.2f,%.2f %.2fx%.2f\n", r.X, r.Y, r.W, r.H)
	}
	// Output:
	// 0.00,0.00 3.00x2.00
	// 0.00,2.00 3.00x2.00
	// 3.00,0.00 1.71x2.33
	// 4.71,0.00 1.29x2.33
	// 3.00,2.33 1.20x1.67
	// 4.20,2.33 1.20x1.67
	// 5.40,2.33 0.60x1.67
}
