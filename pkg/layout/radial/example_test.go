package radial_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/chartgeom/pkg/layout/radial"
)

func ExamplePartition() {
	root := radial.Node{Label: "all", Value: 4, Children: []radial.Node{
		{Label: "x", Value: 3},
		{Label: "y", Value: 1},
	}}
	cfg := radial.DefaultConfig()
	cfg.Gap = 0
	cfg.StartAngle = 0

	res, err := radial.Partition(root, cfg)
	if err != nil {
		panic(err)
	}
	for _, s := range res.Slices {
		fmt.Printf("%s depth=%d %.0f..%.0f deg\n", s.Label, s.Wedge.Depth,
			s.Wedge.Start*180/math.Pi, s.Wedge.End*180/math.Pi)
	}
	// Output:
	// all depth=0 0..360 deg
	// x depth=1 0..270 deg
	// y depth=1 270..360 deg
}
